package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/wacky6382/diabetes-risk-calculator/internal/application/dto"
	"github.com/wacky6382/diabetes-risk-calculator/internal/domain/service"
)

// Exit codes.
const (
	exitError            = 1
	exitInvalidInput     = 2
	exitUnsupportedModel = 3
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch {
	case service.IsInvalidInput(err):
		return exitInvalidInput
	case service.IsUnsupportedModel(err):
		return exitUnsupportedModel
	default:
		return exitError
	}
}

// globalFlags override the matching environment configuration when set.
type globalFlags struct {
	modelsFile      string
	metricsTextfile string
	auditLog        string
	logLevel        string
	json            bool
}

func newRootCmd() *cobra.Command {
	var g globalFlags

	rootCmd := &cobra.Command{
		Use:          "riskcalc",
		Short:        "Type 2 diabetes and cardiovascular risk calculator",
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&g.json, "json", false, "print the result as JSON")
	pf.StringVar(&g.modelsFile, "models-file", "", "YAML file that adds or overrides scoring models (RISKCALC_MODELS_FILE)")
	pf.StringVar(&g.metricsTextfile, "metrics-textfile", "", "write Prometheus textfile metrics here on exit (METRICS_TEXTFILE)")
	pf.StringVar(&g.auditLog, "audit-log", "", "append assessment events as JSON lines to this file (RISKCALC_AUDIT_LOG)")
	pf.StringVar(&g.logLevel, "log-level", "", "debug, info, warn or error (LOG_LEVEL)")

	rootCmd.AddCommand(assessCmd(&g))
	rootCmd.AddCommand(cvdCmd(&g))
	rootCmd.AddCommand(modelsCmd(&g))

	return rootCmd
}

func assessCmd(g *globalFlags) *cobra.Command {
	var (
		s         subjectFlags
		modelID   string
		targetBMI float64
	)

	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Estimate type 2 diabetes risk under one scoring model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := dto.AssessRiskRequest{
				ModelID: modelID,
				Subject: s.subject(cmd),
			}
			var target *float64
			if cmd.Flags().Changed("target-bmi") {
				target = &targetBMI
			}
			return runAssess(cmd, g, req, target)
		},
	}

	s.register(cmd, false)
	cmd.Flags().StringVarP(&modelID, "model", "m", "", "scoring model id (RISKCALC_DEFAULT_MODEL)")
	cmd.Flags().Float64Var(&targetBMI, "target-bmi", 0, "project the result at this BMI, 0 disables (RISKCALC_TARGET_BMI)")
	return cmd
}

func cvdCmd(g *globalFlags) *cobra.Command {
	var s subjectFlags

	cmd := &cobra.Command{
		Use:   "cvd",
		Short: "Score the cardiovascular point system",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCardiovascular(cmd, g, dto.AssessCardiovascularRequest{Subject: s.subject(cmd)})
		},
	}

	s.register(cmd, true)
	return cmd
}

func modelsCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the available scoring models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runModels(cmd, g)
		},
	}
}

// subjectFlags binds the questionnaire answers to command flags.
type subjectFlags struct {
	sex        string
	education  string
	betel      string
	smoking    string
	heightCm   float64
	weightKg   float64
	waistCm    float64
	hipCm      float64
	bmi        float64
	whr        float64
	systolicBP float64
	hdl        float64
	age        int
	family     bool
	diabetes   bool

	cardiovascular bool
}

func (s *subjectFlags) register(cmd *cobra.Command, cardiovascular bool) {
	s.cardiovascular = cardiovascular

	f := cmd.Flags()
	f.IntVar(&s.age, "age", 0, "age in years (1-120)")
	f.StringVar(&s.sex, "sex", "", "male or female")
	f.StringVar(&s.education, "education", "", "level 1-7, or junior-high-or-below, senior-high, college, graduate")
	f.BoolVar(&s.family, "family-history", false, "a parent or sibling has diabetes")
	f.StringVar(&s.betel, "betel", "never", "betel nut chewing: never, current or former")
	f.Float64Var(&s.heightCm, "height", 0, "height in cm")
	f.Float64Var(&s.weightKg, "weight", 0, "weight in kg")
	f.Float64Var(&s.waistCm, "waist", 0, "waist circumference in cm")
	f.Float64Var(&s.hipCm, "hip", 0, "hip circumference in cm")
	f.Float64Var(&s.bmi, "bmi", 0, "body-mass index, instead of height and weight")
	f.Float64Var(&s.whr, "whr", 0, "waist-to-hip ratio, instead of waist and hip")
	f.Float64Var(&s.systolicBP, "sbp", 0, "systolic blood pressure in mmHg")
	f.Float64Var(&s.hdl, "hdl", 0, "HDL cholesterol in mg/dL")
	f.StringVar(&s.smoking, "smoking", "", "never, former or current")
	f.BoolVar(&s.diabetes, "diabetes", false, "diagnosed with diabetes")

	if cardiovascular {
		for _, name := range []string{"age", "sbp", "hdl", "smoking"} {
			_ = cmd.MarkFlagRequired(name)
		}
	}
}

// subject converts the parsed flags. Outside the cvd command, cardiovascular answers
// are only forwarded when given on the command line, so absent ones stay absent.
func (s *subjectFlags) subject(cmd *cobra.Command) dto.SubjectInput {
	in := dto.SubjectInput{
		Age:           s.age,
		Sex:           s.sex,
		Education:     s.education,
		FamilyHistory: s.family,
		Betel:         s.betel,
		HeightCm:      s.heightCm,
		WeightKg:      s.weightKg,
		WaistCm:       s.waistCm,
		HipCm:         s.hipCm,
		BMI:           s.bmi,
		WHR:           s.whr,
	}

	f := cmd.Flags()
	if f.Changed("sbp") {
		v := s.systolicBP
		in.SystolicBP = &v
	}
	if f.Changed("hdl") {
		v := s.hdl
		in.HDL = &v
	}
	if f.Changed("smoking") {
		v := s.smoking
		in.Smoking = &v
	}
	if f.Changed("diabetes") || s.cardiovascular {
		v := s.diabetes
		in.Diabetes = &v
	}
	return in
}
