package topics

// defaultStopwords is the built-in list of function words and contractions
// filtered out of keyword extraction. A lexicon file can extend it.
var defaultStopwords = []string{
	"a", "about", "above", "after", "again", "against", "all", "also", "am",
	"an", "and", "any", "are", "aren't", "as", "at", "be", "because", "been",
	"before", "being", "below", "between", "both", "but", "by", "can",
	"can't", "cannot", "could", "couldn't", "did", "didn't", "do", "does",
	"doesn't", "doing", "don't", "down", "during", "each", "few", "for",
	"from", "further", "get", "got", "had", "hadn't", "has", "hasn't",
	"have", "haven't", "having", "he", "her", "here", "hers", "him", "his",
	"how", "i'm", "i've", "if", "in", "into", "is", "isn't", "it", "it's",
	"its", "just", "like", "me", "more", "most", "mustn't", "my", "no",
	"nor", "not", "now", "of", "off", "on", "once", "only", "or", "other",
	"our", "out", "over", "own", "really", "same", "she", "should",
	"shouldn't", "so", "some", "such", "than", "that", "that's", "the",
	"their", "them", "then", "there", "these", "they", "this", "those",
	"through", "to", "too", "under", "until", "up", "very", "was", "wasn't",
	"we", "were", "weren't", "what", "when", "where", "which", "while",
	"who", "why", "will", "with", "won't", "would", "wouldn't", "you",
	"your",
}
