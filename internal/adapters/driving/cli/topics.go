package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	topicsVocab  string
	topicsBeta   string
	topicsNWords int
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Print the top words of every topic",
	Long: `Loads an LDA-C topic model (a vocabulary file and a .beta matrix) and
prints the highest ranked words of each topic.`,
	Args: cobra.NoArgs,
	RunE: runTopics,
}

func init() {
	topicsCmd.Flags().StringVar(&topicsVocab, "vocab", "", "vocabulary file, one word per line")
	topicsCmd.Flags().StringVar(&topicsBeta, "beta", "", "topic-word matrix in LDA-C .beta format")
	topicsCmd.Flags().IntVarP(&topicsNWords, "nwords", "n", 10, "number of words per topic")
	_ = topicsCmd.MarkFlagRequired("vocab")
	_ = topicsCmd.MarkFlagRequired("beta")
	rootCmd.AddCommand(topicsCmd)
}

func runTopics(cmd *cobra.Command, _ []string) error {
	if topicsNWords <= 0 {
		return fmt.Errorf("nwords must be positive, got %d", topicsNWords)
	}
	if err := ensureServices(); err != nil {
		return err
	}
	if topicService == nil {
		return errors.New("topic service not configured")
	}

	topics, err := topicService.TopWords(cmd.Context(), topicsVocab, topicsBeta, topicsNWords)
	if err != nil {
		return fmt.Errorf("loading topic model: %w", err)
	}

	for i, words := range topics {
		cmd.Printf("topic %3d\n", i+1)
		for _, w := range words {
			cmd.Printf("   %s\n", w)
		}
		cmd.Println()
	}
	return nil
}
