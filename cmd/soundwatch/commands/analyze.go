package commands

import (
	"os"

	"github.com/spf13/cobra"

	"soundwatch/internal/analysis"
	"soundwatch/internal/render"
)

var analyzeLimit int

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run text and statistical analyses over the corpus.",
}

var analyzeWordsCmd = &cobra.Command{
	Use:   "words",
	Short: "Print the most frequent terms in the corpus.",
	RunE: func(cmd *cobra.Command, args []string) error {
		docs, err := tokenizedCorpus()
		if err != nil {
			return err
		}

		render.WordReport(os.Stdout, analysis.TermFrequencies(docs), analyzeLimit)
		return nil
	},
}

var analyzeTFIDFCmd = &cobra.Command{
	Use:   "tfidf",
	Short: "Print the highest tf-idf weighted terms per tweet.",
	RunE: func(cmd *cobra.Command, args []string) error {
		docs, err := tokenizedCorpus()
		if err != nil {
			return err
		}

		render.TFIDFReport(os.Stdout, analysis.TFIDF(docs), analyzeLimit)
		return nil
	},
}

var analyzeSentimentCmd = &cobra.Command{
	Use:   "sentiment",
	Short: "Score the corpus against the positive and negative word lists.",
	RunE: func(cmd *cobra.Command, args []string) error {
		docs, err := tokenizedCorpus()
		if err != nil {
			return err
		}

		lexicon, err := analysis.LoadLexicon(cfg.Analysis.PositiveFile, cfg.Analysis.NegativeFile)
		if err != nil {
			return err
		}

		_, total := lexicon.ScoreDocuments(docs)
		render.SentimentReport(os.Stdout, total)
		return nil
	},
}

var analyzeDictionaryCmd = &cobra.Command{
	Use:   "dictionary",
	Short: "Count matches against the moral-emotional and polarization dictionaries.",
	RunE: func(cmd *cobra.Command, args []string) error {
		docs, err := tokenizedCorpus()
		if err != nil {
			return err
		}

		dictionary, err := loadDictionary()
		if err != nil {
			return err
		}

		var tokens []string
		for _, doc := range docs {
			tokens = append(tokens, doc...)
		}

		render.DictionaryReport(os.Stdout, dictionary.Counts(tokens))
		return nil
	},
}

var analyzeRegressCmd = &cobra.Command{
	Use:   "regress",
	Short: "Fit a linear model of log retweet count on tweet and author covariates.",
	RunE: func(cmd *cobra.Command, args []string) error {
		corpus, _, err := loadCorpus()
		if err != nil {
			return err
		}

		fit, err := analysis.FitLinear(analysis.RetweetObservations(corpus), analysis.RetweetCovariates)
		if err != nil {
			return err
		}

		render.RegressionReport(os.Stdout, fit)
		return nil
	},
}

func init() {
	analyzeCmd.PersistentFlags().IntVar(&analyzeLimit, "limit", 25, "rows to print")
	analyzeCmd.AddCommand(analyzeWordsCmd)
	analyzeCmd.AddCommand(analyzeTFIDFCmd)
	analyzeCmd.AddCommand(analyzeSentimentCmd)
	analyzeCmd.AddCommand(analyzeDictionaryCmd)
	analyzeCmd.AddCommand(analyzeRegressCmd)
	rootCmd.AddCommand(analyzeCmd)
}

// tokenizedCorpus loads the corpus and tokenizes every tweet text.
func tokenizedCorpus() (map[string][]string, error) {
	corpus, _, err := loadCorpus()
	if err != nil {
		return nil, err
	}

	stopwords, err := loadStopwords()
	if err != nil {
		return nil, err
	}

	return analysis.TokenizeDocuments(corpus.Documents(), stopwords), nil
}

// loadDictionary loads the configured category word lists.
func loadDictionary() (*analysis.Dictionary, error) {
	moral, err := analysis.LoadCategory("moral-emotional", cfg.Analysis.MoralFile)
	if err != nil {
		return nil, err
	}

	polarization, err := analysis.LoadCategory("polarization", cfg.Analysis.PolarizationFile)
	if err != nil {
		return nil, err
	}

	return analysis.NewDictionary(moral, polarization), nil
}
