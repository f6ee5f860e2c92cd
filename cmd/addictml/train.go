package main

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/spf13/cobra"

	"github.com/socialpulse/addictml/bundle"
	"github.com/socialpulse/addictml/config"
	"github.com/socialpulse/addictml/dataset"
	"github.com/socialpulse/addictml/inference"
	"github.com/socialpulse/addictml/pkg/errors"
	"github.com/socialpulse/addictml/pkg/log"
	"github.com/socialpulse/addictml/training"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train all candidate models and persist the best one",
	RunE:  runTrain,
}

func init() {
	trainCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML configuration")
}

func runTrain(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	table, err := dataset.LoadCSV(cfg.Data.Path, cfg.Data.TargetColumn)
	if err != nil {
		return err
	}
	slog.Info("dataset loaded",
		slog.String("path", cfg.Data.Path),
		slog.Int(log.SamplesKey, table.Len()))

	result, err := training.TrainAndSelect(table, training.Options{
		TestSize: cfg.Training.TestSize,
		Seed:     cfg.Training.Seed,
		CVFolds:  cfg.Training.CVFolds,
	})
	if err != nil {
		return err
	}

	fmt.Print(training.FormatReport(result))

	if cfg.Output.ChartPath != "" {
		if err := training.SaveComparisonChart(result, cfg.Output.ChartPath); err != nil {
			return err
		}
		slog.Info("comparison chart written", slog.String("path", cfg.Output.ChartPath))
	}

	if err := bundle.Save(result.Package, cfg.Output.ModelPath); err != nil {
		return err
	}
	slog.Info("model package saved",
		slog.String(log.ModelNameKey, result.Package.ModelName),
		slog.String(log.ModelPathKey, cfg.Output.ModelPath))

	return selfTest(cfg.Output.ModelPath, table, result)
}

// selfTest reloads the saved package and rescores the first record,
// verifying the persisted artifact before anyone serves from it.
func selfTest(path string, table *dataset.Table, result *training.Result) error {
	reloaded, err := bundle.Load(path)
	if err != nil {
		return err
	}

	rec := table.Records[0]
	fromTrained, err := inference.Predict(result.Package, rec)
	if err != nil {
		return err
	}
	fromDisk, err := inference.Predict(reloaded, rec)
	if err != nil {
		return err
	}
	if math.Abs(fromTrained-fromDisk) > 1e-9 {
		return errors.Newf("reloaded model disagrees with trained model: %v vs %v", fromDisk, fromTrained)
	}

	slog.Info("self test passed",
		slog.Float64(log.ScoreKey, fromDisk),
		slog.String(log.LevelKey, inference.Level(fromDisk)))
	return nil
}
