package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/socialpulse/addictml/bundle"
	"github.com/socialpulse/addictml/features"
	"github.com/socialpulse/addictml/inference"
	"github.com/socialpulse/addictml/pkg/errors"
)

var (
	modelPath string
	inputPath string

	inAge          float64
	inGender       string
	inLevel        string
	inCountry      string
	inUsage        float64
	inPlatform     string
	inAffects      string
	inSleep        float64
	inMentalHealth float64
	inConflicts    float64

	predictCmd = &cobra.Command{
		Use:   "predict",
		Short: "Score one student record with the saved model",
		RunE:  runPredict,
	}
)

func init() {
	f := predictCmd.Flags()
	f.StringVar(&modelPath, "model", bundle.DefaultPath, "path to the saved model package")
	f.StringVar(&inputPath, "input", "", "YAML file with one record (overrides field flags)")
	f.Float64Var(&inAge, "age", 0, "age in years")
	f.StringVar(&inGender, "gender", "", "gender")
	f.StringVar(&inLevel, "academic-level", "", "academic level")
	f.StringVar(&inCountry, "country", "", "country")
	f.Float64Var(&inUsage, "usage", 0, "average daily usage in hours")
	f.StringVar(&inPlatform, "platform", "", "most used platform")
	f.StringVar(&inAffects, "affects-academic", "", "affects academic performance (Yes/No)")
	f.Float64Var(&inSleep, "sleep", 0, "sleep hours per night")
	f.Float64Var(&inMentalHealth, "mental-health", 0, "mental health score")
	f.Float64Var(&inConflicts, "conflicts", 0, "conflicts over social media")

}

// fieldFlags maps each record field to its flag name, used both to build
// the record and to check that flag input is complete.
var fieldFlags = []struct {
	field string
	flag  string
}{
	{features.FieldAge, "age"},
	{features.FieldGender, "gender"},
	{features.FieldAcademicLevel, "academic-level"},
	{features.FieldCountry, "country"},
	{features.FieldDailyUsage, "usage"},
	{features.FieldPlatform, "platform"},
	{features.FieldAffectsAcademic, "affects-academic"},
	{features.FieldSleepHours, "sleep"},
	{features.FieldMentalHealth, "mental-health"},
	{features.FieldConflicts, "conflicts"},
}

func runPredict(cmd *cobra.Command, args []string) error {
	loader := bundle.NewLoader(modelPath)
	pkg, err := loader.Get()
	if err != nil {
		return err
	}

	rec, err := inputRecord(cmd)
	if err != nil {
		return err
	}
	warnOutOfRange(rec)

	score, level, err := inference.PredictWithLevel(pkg, rec)
	if err != nil {
		return err
	}

	fmt.Printf("Addiction score: %.2f / 10\n", score)
	fmt.Printf("Addiction level: %s\n", level)
	fmt.Printf("Model: %s\n", pkg.ModelName)
	return nil
}

// inputRecord assembles the record from the YAML input file when given,
// otherwise from the field flags, all of which must then be set.
func inputRecord(cmd *cobra.Command) (map[string]any, error) {
	if inputPath != "" {
		data, err := os.ReadFile(inputPath)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read input file")
		}
		rec := make(map[string]any)
		if err := yaml.Unmarshal(data, &rec); err != nil {
			return nil, errors.Wrap(err, "failed to parse input file")
		}
		return rec, nil
	}

	for _, ff := range fieldFlags {
		if !cmd.Flags().Changed(ff.flag) {
			return nil, errors.Newf("either --input or all field flags are required; --%s is missing", ff.flag)
		}
	}
	return map[string]any{
		features.FieldAge:             inAge,
		features.FieldGender:          inGender,
		features.FieldAcademicLevel:   inLevel,
		features.FieldCountry:         inCountry,
		features.FieldDailyUsage:      inUsage,
		features.FieldPlatform:        inPlatform,
		features.FieldAffectsAcademic: inAffects,
		features.FieldSleepHours:      inSleep,
		features.FieldMentalHealth:    inMentalHealth,
		features.FieldConflicts:       inConflicts,
	}, nil
}

// warnOutOfRange flags inputs outside the survey's collection ranges
// without blocking the prediction.
func warnOutOfRange(rec map[string]any) {
	r, err := features.FromMap(rec)
	if err != nil {
		return
	}
	if werr := r.Validate(); werr != nil {
		errors.Warn(werr)
	}
}
