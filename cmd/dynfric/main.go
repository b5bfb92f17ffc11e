package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/san-kum/dynfric/internal/config"
	"github.com/san-kum/dynfric/internal/constants"
	"github.com/san-kum/dynfric/internal/dynfric"
	"github.com/san-kum/dynfric/internal/logging"
	"github.com/san-kum/dynfric/internal/storage"
	"github.com/san-kum/dynfric/internal/sweep"
	"github.com/san-kum/dynfric/internal/tui"
	"github.com/san-kum/dynfric/internal/viz"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string
	logFormat  string
	// mechanism overrides
	whichBH    string
	coulomb    float64
	noAtten    bool
	gasVelSoft float64
	mstar      float64
	viscDisk   bool
	selfGrav   bool
	// scenario overrides
	m1        float64
	m2        float64
	rads      float64
	densGas   float64
	densStars float64
	densDM    float64
	vdisp     float64
	radsHard  float64
	massStars float64
	radsSG    float64
	// sweep
	rmin    float64
	rmax    float64
	points  int
	workers int
	save    bool
	noPlot  bool

	logger *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "dynfric",
		Short:         "dynamical friction hardening rates for massive binaries",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			logger, err = newLogger()
			return err
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".dynfric", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (console, json)")

	hardenCmd := &cobra.Command{
		Use:   "harden",
		Short: "hardening rate of a single binary",
		Args:  cobra.NoArgs,
		RunE:  runHarden,
	}
	addScenarioFlags(hardenCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "hardening rate profile over a separation grid",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addScenarioFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&rmin, "rmin", config.DefaultRMin, "smallest separation [pc]")
	sweepCmd.Flags().Float64Var(&rmax, "rmax", config.DefaultRMax, "largest separation [pc]")
	sweepCmd.Flags().IntVar(&points, "points", config.DefaultPoints, "number of log-spaced separations")
	sweepCmd.Flags().IntVar(&workers, "workers", config.DefaultWorkers, "parallel workers")
	sweepCmd.Flags().BoolVar(&save, "save", false, "save the run to the data directory")
	sweepCmd.Flags().BoolVar(&noPlot, "no-plot", false, "skip the ascii plot")

	exploreCmd := &cobra.Command{
		Use:   "explore",
		Short: "interactive separation explorer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			return tui.Run(cfg)
		},
	}
	addScenarioFlags(exploreCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a saved run's rates to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("presets:")
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(hardenCmd, sweepCmd, exploreCmd, listCmd, showCmd, exportCSVCmd, presetsCmd)

	err := rootCmd.Execute()
	if logger != nil {
		_ = logger.Sync()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// newLogger builds the logger from the logging section of the preset or
// config file. --log-level and --log-format take precedence.
func newLogger() (*zap.Logger, error) {
	cfg := config.DefaultConfig().Logging
	if preset != "" {
		if p := config.GetPreset(preset); p != nil {
			cfg = p.Logging
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded.Logging
	}
	return logging.New(cfg, logLevel, logFormat)
}

func addScenarioFlags(cmd *cobra.Command) {
	def := config.DefaultConfig()
	f := cmd.Flags()
	f.StringVar(&whichBH, "which-bh", def.Mechanism.WhichBH.String(), "object mass policy (total, primary, secondary)")
	f.Float64Var(&coulomb, "coulomb", def.Mechanism.CoulombLogarithm, "coulomb logarithm")
	f.BoolVar(&noAtten, "no-attenuation", false, "use the full loss-cone drag everywhere")
	f.Float64Var(&gasVelSoft, "gas-vel-soft", def.Mechanism.GasVelSoft, "gas velocity dispersion multiplier")
	f.Float64Var(&mstar, "mstar", def.Mechanism.MStar, "characteristic stellar mass [Msol]")
	f.BoolVar(&viscDisk, "visc-disk", false, "viscous circumbinary disk present")
	f.BoolVar(&selfGrav, "self-grav", false, "truncate gas drag at the self-gravity radius")

	f.Float64Var(&m1, "m1", def.Binary.M1, "primary mass [Msol]")
	f.Float64Var(&m2, "m2", def.Binary.M2, "secondary mass [Msol]")
	f.Float64Var(&rads, "rads", def.Binary.Rads, "separation [pc]")
	f.Float64Var(&densGas, "dens-gas", def.Binary.DensGas, "gas density [g/cm^3]")
	f.Float64Var(&densStars, "dens-stars", def.Binary.DensStars, "stellar density [g/cm^3]")
	f.Float64Var(&densDM, "dens-dm", def.Binary.DensDM, "dark matter density [g/cm^3]")
	f.Float64Var(&vdisp, "vdisp", def.Binary.Vdisp, "velocity dispersion [km/s]")
	f.Float64Var(&radsHard, "rads-hard", def.Binary.RadsHard, "hardening radius [pc]")
	f.Float64Var(&massStars, "mass-stars", def.Binary.MassStars, "interacting stellar mass [Msol]")
	f.Float64Var(&radsSG, "rads-sg", def.Binary.RadsSG, "self-gravity radius [pc]")
}

// resolveConfig layers defaults, preset, config file and explicitly set flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("which-bh") {
		policy, err := dynfric.ParseObjectMass(whichBH)
		if err != nil {
			return nil, err
		}
		cfg.Mechanism.WhichBH = policy
	}
	setFloat := func(name string, dst *float64, val float64) {
		if flags.Changed(name) {
			*dst = val
		}
	}
	setFloat("coulomb", &cfg.Mechanism.CoulombLogarithm, coulomb)
	setFloat("gas-vel-soft", &cfg.Mechanism.GasVelSoft, gasVelSoft)
	setFloat("mstar", &cfg.Mechanism.MStar, mstar)
	if flags.Changed("no-attenuation") {
		cfg.Mechanism.Attenuated = !noAtten
	}
	if flags.Changed("visc-disk") {
		cfg.Settings.ViscDisk = viscDisk
	}
	if flags.Changed("self-grav") {
		cfg.Settings.SelfGravity = selfGrav
	}

	setFloat("m1", &cfg.Binary.M1, m1)
	setFloat("m2", &cfg.Binary.M2, m2)
	setFloat("rads", &cfg.Binary.Rads, rads)
	setFloat("dens-gas", &cfg.Binary.DensGas, densGas)
	setFloat("dens-stars", &cfg.Binary.DensStars, densStars)
	setFloat("dens-dm", &cfg.Binary.DensDM, densDM)
	setFloat("vdisp", &cfg.Binary.Vdisp, vdisp)
	setFloat("rads-hard", &cfg.Binary.RadsHard, radsHard)
	setFloat("mass-stars", &cfg.Binary.MassStars, massStars)
	setFloat("rads-sg", &cfg.Binary.RadsSG, radsSG)

	if flags.Lookup("points") != nil {
		setFloat("rmin", &cfg.Sweep.RMin, rmin)
		setFloat("rmax", &cfg.Sweep.RMax, rmax)
		if flags.Changed("points") {
			cfg.Sweep.Points = points
		}
		if flags.Changed("workers") {
			cfg.Sweep.Workers = workers
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("configuration resolved",
		zap.String("preset", preset),
		zap.String("config", configFile),
		zap.Stringer("which_bh", cfg.Mechanism.WhichBH),
		zap.Bool("attenuated", cfg.Mechanism.Attenuated),
	)
	return cfg, nil
}

func runHarden(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	calc, err := dynfric.New(cfg.Mechanism, cfg.Settings, nil)
	if err != nil {
		return err
	}

	in := cfg.Binary.Inputs()
	res, err := calc.Harden(in)
	if err != nil {
		return err
	}
	tauTotal, tauGas, err := calc.Timescales(in)
	if err != nil {
		return err
	}

	vcirc := dynfric.VelCirc(in.M1[0], in.M2[0], in.Rads[0])
	fmt.Println(viz.Title.Render("dynamical friction hardening"))
	fmt.Println(viz.Metric("separation", fmt.Sprintf("%.4g pc", cfg.Binary.Rads)))
	fmt.Println(viz.Metric("v_circ", fmt.Sprintf("%.4g km/s", vcirc/constants.KMPERSEC)))
	fmt.Println(viz.Metric("object mass", cfg.Mechanism.WhichBH.String()))
	fmt.Println(viz.Metric("da/dt background", fmt.Sprintf("%.6e cm/s (%.4e pc/Myr)", res.DadtTotal[0], viz.PcPerMyr(res.DadtTotal[0]))))
	fmt.Println(viz.Metric("da/dt gas", fmt.Sprintf("%.6e cm/s (%.4e pc/Myr)", res.DadtGas[0], viz.PcPerMyr(res.DadtGas[0]))))
	fmt.Println(viz.Metric("tau background", fmt.Sprintf("%.4e Myr", tauTotal[0]/viz.Myr)))
	fmt.Println(viz.Metric("tau gas", fmt.Sprintf("%.4e Myr", tauGas[0]/viz.Myr)))
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	calc, err := dynfric.New(cfg.Mechanism, cfg.Settings, nil)
	if err != nil {
		return err
	}

	grid := sweep.LogSpace(cfg.Sweep.RMin*constants.PC, cfg.Sweep.RMax*constants.PC, cfg.Sweep.Points)
	start := time.Now()
	res, err := sweep.NewRunner(calc, cfg.Sweep.Workers, logger).Run(context.Background(), cfg.Binary.Inputs(), grid)
	if err != nil {
		return err
	}
	logger.Info("sweep finished", zap.Int("points", res.Len()), zap.Duration("elapsed", time.Since(start)))

	if err := viz.WriteTable(os.Stdout, res); err != nil {
		return err
	}
	if !noPlot {
		fmt.Println()
		fmt.Println(viz.PlotRates(res, 80, 15))
	}

	if save {
		st := storage.New(dataDir, logger)
		if err := st.Init(); err != nil {
			return err
		}
		name := preset
		if name == "" {
			name = "sweep"
		}
		runID, err := st.Save(name, cfg, res)
		if err != nil {
			return err
		}
		fmt.Printf("\nrun id: %s\n", runID)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir, logger)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println(viz.Subtle.Render("no runs found"))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tPOINTS\tWHICH_BH\tATTENUATED")
	for _, run := range runs {
		policy, attenuated := "-", "-"
		if run.Config != nil {
			policy = run.Config.Mechanism.WhichBH.String()
			attenuated = fmt.Sprintf("%t", run.Config.Mechanism.Attenuated)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Points,
			policy,
			attenuated,
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir, logger)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	res, err := st.LoadRates(args[0])
	if err != nil {
		return err
	}
	if res.Len() == 0 {
		return fmt.Errorf("no data in run %s", args[0])
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("points: %d\n\n", meta.Points)
	if err := viz.WriteTable(os.Stdout, res); err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(viz.PlotRates(res, 80, 15))
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir, logger)
	res, err := st.LoadRates(args[0])
	if err != nil {
		return err
	}
	if res.Len() == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	if err := w.Write([]string{"rads_pc", "dadt_total_pc_myr", "dadt_gas_pc_myr", "tau_total_myr", "tau_gas_myr"}); err != nil {
		return err
	}
	for i := 0; i < res.Len(); i++ {
		row := []string{
			strconv.FormatFloat(res.Rads[i]/constants.PC, 'e', 6, 64),
			strconv.FormatFloat(viz.PcPerMyr(res.DadtTotal[i]), 'e', 6, 64),
			strconv.FormatFloat(viz.PcPerMyr(res.DadtGas[i]), 'e', 6, 64),
			strconv.FormatFloat(res.TauTotal[i]/viz.Myr, 'e', 6, 64),
			strconv.FormatFloat(res.TauGas[i]/viz.Myr, 'e', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
