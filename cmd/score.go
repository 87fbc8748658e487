package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/leadscore/internal/leads"
	"github.com/spigell/leadscore/internal/logger"
	"github.com/spigell/leadscore/internal/metrics"
	"github.com/spigell/leadscore/internal/store"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var errOverwriteDeclined = errors.New("overwrite declined")

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a CSV of leads against an offer file without starting the API",
	Run: func(cmd *cobra.Command, _ []string) {
		score(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().String("offer", "offer.yaml", "offer file (yaml or json) with name, value_props and ideal_use_cases")
	scoreCmd.Flags().String("leads", "leads.csv", "csv file with leads")
	scoreCmd.Flags().StringP("out", "o", "", "write results as csv to this file instead of printing json")
	scoreCmd.Flags().BoolP("auto-approve", "y", false, "overwrite the output file without asking")
}

func score(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig(viper.GetViper())
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	offerPath, _ := cmd.Flags().GetString("offer")
	offer, err := loadOffer(offerPath)
	if err != nil {
		logger.Fatal("loading offer", zap.Error(err), zap.String("file", offerPath))
	}

	leadsPath, _ := cmd.Flags().GetString("leads")
	batch, err := loadLeads(leadsPath)
	if err != nil {
		logger.Fatal("loading leads", zap.Error(err), zap.String("file", leadsPath))
	}

	logger.Info("starting the scoring", zap.String("offer", offer.Name), zap.Int("leads", len(batch)))

	recorder := metrics.NewRecorder(false)

	classifier, err := newClassifier(ctx, config.AI, logger, recorder)
	if err != nil {
		logger.Fatal("building intent classifier", zap.Error(err))
	}

	s := store.New()
	s.SetOffer(offer)
	s.AddLeads(batch)

	results, err := s.Score(ctx, newPipeline(classifier, config, logger, recorder).Run)
	if err != nil {
		logger.Fatal("scoring failed", zap.Error(err))
	}

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(results.Items); err != nil {
			logger.Fatal("printing results", zap.Error(err))
		}
		return
	}

	if results.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no leads to score"))
		return
	}

	autoApprove, _ := cmd.Flags().GetBool("auto-approve")
	if err := writeResults(out, results, autoApprove, confirmOverwrite); err != nil {
		if errors.Is(err, errOverwriteDeclined) {
			logger.Info("exiting", zap.String("reason", "got no from prompt"))
			return
		}
		logger.Fatal("writing results", zap.Error(err), zap.String("file", out))
	}

	logger.Info("results written", zap.String("file", out), zap.Int("count", results.Len()))
}

// loadOffer reads an offer file with a dedicated viper instance so it does not
// mix with the application config.
func loadOffer(path string) (leads.Offer, error) {
	v := viper.New()
	v.SetConfigFile(path)

	var offer leads.Offer
	if err := v.ReadInConfig(); err != nil {
		return offer, fmt.Errorf("read offer file: %w", err)
	}

	if err := v.Unmarshal(&offer); err != nil {
		return offer, fmt.Errorf("decode offer: %w", err)
	}

	offer.Name = strings.TrimSpace(offer.Name)
	if offer.Name == "" {
		return offer, errors.New("offer name is required")
	}

	return offer, nil
}

func loadLeads(path string) ([]leads.Lead, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return leads.ParseCSV(f)
}

func confirmOverwrite(path string) (bool, error) {
	prompt := promptui.Select{
		Label: fmt.Sprintf("%s exists. Overwrite?", path),
		Items: []string{PromptYes, PromptNo},
	}

	_, answer, err := prompt.Run()
	if err != nil {
		return false, err
	}
	return answer == PromptYes, nil
}

func writeResults(path string, results *leads.ResultSet, autoApprove bool, confirm func(string) (bool, error)) error {
	if _, err := os.Stat(path); err == nil && !autoApprove {
		ok, err := confirm(path)
		if err != nil {
			return err
		}
		if !ok {
			return errOverwriteDeclined
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := leads.WriteCSV(f, results); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
