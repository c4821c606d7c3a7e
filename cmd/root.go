package cmd

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"mm1calc/internal/analysis"
	"mm1calc/internal/banner"
	"mm1calc/internal/cli"
	"mm1calc/internal/export"
	"mm1calc/internal/queue"
	"mm1calc/internal/storage"
	"mm1calc/internal/tui/app"
)

var (
	cfgFile string

	format      string
	outPrefix   string
	percentiles []float64
)

// flagKeys maps flags to the viper keys that fill analysis.Config.
var flagKeys = map[string]string{
	"arrival-rate":      "arrival_rate",
	"service-time":      "service_time",
	"unit-conversion":   "unit_conversion",
	"n":                 "n",
	"n-max":             "n_max",
	"time-unit":         "time_unit",
	"service-time-unit": "service_time_unit",
}

var rootCmd = &cobra.Command{
	Use:   "mm1calc",
	Short: "mm1calc - M/M/1 queue calculator",
	Long: `
mm1calc computes the steady-state measures of an M/M/1 queue:
utilization, average queue lengths and waiting times, and the
probability of n customers in the system.

It supports two main modes:
1. TUI Mode (Default): Interactive Terminal UI
2. CLI Mode (Headless): for scripts and CI, selected whenever an
   arrival rate is given by --arrival-rate, by arrival_rate in the
   config file or by MM1CALC_ARRIVAL_RATE`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		if wantsHeadless(cmd, viper.GetViper()) {
			return runHeadless(cmd, cfg)
		}
		return runTUI(cfg)
	},
}

// wantsHeadless reports whether an arrival rate was given by flag, config
// file or MM1CALC_ARRIVAL_RATE. Unchanged flag defaults do not count.
func wantsHeadless(cmd *cobra.Command, v *viper.Viper) bool {
	return cmd.Flags().Changed("arrival-rate") || v.IsSet("arrival_rate")
}

func Execute() {
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		fmt.Println(banner.GetString())
		cmd.Usage()
	})

	if err := rootCmd.Execute(); err != nil {
		// The unstable verdict has already been printed.
		if !errors.Is(err, queue.ErrUnstableSystem) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(serveCmd)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.mm1calc.yaml)")

	def := analysis.DefaultConfig()
	flags := rootCmd.Flags()
	flags.Float64P("arrival-rate", "l", def.ArrivalRate, "Average arrival rate λ per time unit (enables CLI mode, as do arrival_rate in the config file and MM1CALC_ARRIVAL_RATE)")
	flags.Float64P("service-time", "s", def.ServiceTime, "Average service time per customer, in service time units")
	flags.Float64("unit-conversion", def.UnitConversion, "Service time units per time unit (e.g. 60 minutes per hour)")
	flags.Int("n", def.N, "n for the exact probability P(N = n)")
	flags.Int("n-max", def.NMax, fmt.Sprintf("Show the probability table up to n (max %d)", analysis.MaxTableSize))
	flags.String("time-unit", def.TimeUnit, "Time unit of λ and the reported times")
	flags.String("service-time-unit", def.ServiceTimeUnit, "Time unit of the service time")
	flags.Float64SliceVar(&percentiles, "percentile", def.Percentiles, "Time percentiles to report, in (0, 1) (repeatable)")
	flags.StringVarP(&format, "format", "f", string(export.FormatText), "Output format: text, json or yaml")
	flags.StringVarP(&outPrefix, "out", "o", "", "Output filename prefix for auto-reporting")

	for flag, key := range flagKeys {
		viper.BindPFlag(key, flags.Lookup(flag))
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigType("yaml")
			viper.SetConfigName(".mm1calc")
		}
	}
	viper.SetEnvPrefix("MM1CALC")
	viper.AutomaticEnv()
	viper.ReadInConfig()
}

// loadConfig merges defaults, config file, environment and flags, in
// increasing priority.
func loadConfig(cmd *cobra.Command) (analysis.Config, error) {
	cfg := analysis.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	if cmd.Flags().Changed("percentile") || !viper.IsSet("percentiles") {
		cfg.Percentiles = percentiles
	}
	return cfg, nil
}

func runTUI(cfg analysis.Config) error {
	dir, err := storage.DefaultDir()
	if err != nil {
		return err
	}
	store, err := storage.NewStore(dir)
	if err != nil {
		return fmt.Errorf("failed to open session history: %w", err)
	}
	defer store.Close()

	p := tea.NewProgram(app.NewModel(cfg, store), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running mm1calc: %w", err)
	}
	return nil
}

func runHeadless(cmd *cobra.Command, cfg analysis.Config) error {
	f, err := export.ParseFormat(format)
	if err != nil {
		return err
	}
	return cli.Start(cfg, f, outPrefix, cmd.OutOrStdout())
}
