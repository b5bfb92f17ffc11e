package tui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/dynfric/internal/config"
	"github.com/san-kum/dynfric/internal/constants"
	"github.com/san-kum/dynfric/internal/dynfric"
	"github.com/san-kum/dynfric/internal/hardening"
	"github.com/san-kum/dynfric/internal/viz"
)

const (
	fineStep   = 0.1 // [dex]
	coarseStep = 0.5 // [dex]
	minLogR    = -6.0
	maxLogR    = 4.0
)

var policies = []dynfric.ObjectMass{
	dynfric.ObjectMassSecondary,
	dynfric.ObjectMassPrimary,
	dynfric.ObjectMassTotal,
}

// Model is an interactive explorer of the hardening rate at a single
// separation. The separation is stepped in log10 space.
type Model struct {
	cfg      *config.Config
	logR     float64 // log10 of separation [pc]
	total    float64
	gas      float64
	tauTotal float64
	tauGas   float64
	err      error
}

// NewModel returns an explorer starting at the scenario's separation. The
// explorer works on its own copy of cfg.
func NewModel(cfg *config.Config) Model {
	c := *cfg
	m := Model{cfg: &c, logR: math.Log10(c.Binary.Rads)}
	m.evaluate()
	return m
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "right", "l":
		m.logR += fineStep
	case "left", "h":
		m.logR -= fineStep
	case "up", "k":
		m.logR += coarseStep
	case "down", "j":
		m.logR -= coarseStep
	case "a":
		m.cfg.Mechanism.Attenuated = !m.cfg.Mechanism.Attenuated
	case "d":
		on := !(m.cfg.Settings.ViscDisk && m.cfg.Settings.SelfGravity)
		m.cfg.Settings = hardening.StaticSettings{ViscDisk: on, SelfGravity: on}
	case "p":
		m.cfg.Mechanism.WhichBH = nextPolicy(m.cfg.Mechanism.WhichBH)
	default:
		return m, nil
	}
	m.logR = math.Max(minLogR, math.Min(maxLogR, m.logR))
	m.evaluate()
	return m, nil
}

func nextPolicy(cur dynfric.ObjectMass) dynfric.ObjectMass {
	for i, p := range policies {
		if p == cur {
			return policies[(i+1)%len(policies)]
		}
	}
	return policies[0]
}

// Rads returns the current separation in parsecs.
func (m Model) Rads() float64 { return math.Pow(10, m.logR) }

// Rates returns the current background and gas hardening rates [cm/s].
func (m Model) Rates() (total, gas float64) { return m.total, m.gas }

func (m *Model) evaluate() {
	calc, err := dynfric.New(m.cfg.Mechanism, m.cfg.Settings, nil)
	if err != nil {
		m.err = err
		return
	}
	in := m.cfg.Binary.Inputs()
	in.Rads = []float64{m.Rads() * constants.PC}

	res, err := calc.Harden(in)
	if err != nil {
		m.err = err
		return
	}
	tauTotal, tauGas, err := calc.Timescales(in)
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.total, m.gas = res.DadtTotal[0], res.DadtGas[0]
	m.tauTotal, m.tauGas = tauTotal[0], tauGas[0]
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(viz.Title.Render("dynamical friction explorer"))
	b.WriteString("\n\n")

	hard := m.Rads() < m.cfg.Binary.RadsHard
	regime := "soft"
	if hard {
		regime = "hard"
	}
	b.WriteString(viz.Metric("separation", fmt.Sprintf("%.4g pc (%s)", m.Rads(), regime)) + "\n")
	b.WriteString(viz.Subtle.Render(fmt.Sprintf("r_hard %.4g pc  r_sg %.4g pc", m.cfg.Binary.RadsHard, m.cfg.Binary.RadsSG)) + "\n")
	b.WriteString(viz.Metric("object mass", m.cfg.Mechanism.WhichBH.String()) + "\n")
	b.WriteString(viz.MetricLabel.Render("attenuation:") + " " + viz.Toggle(m.cfg.Mechanism.Attenuated) + "   ")
	b.WriteString(viz.MetricLabel.Render("disk cutoff:") + " " + viz.Toggle(m.cfg.Settings.ViscDiskFlag() && m.cfg.Settings.SelfGravRad()) + "\n\n")

	if m.err != nil {
		b.WriteString(viz.StatusOff.Render("error: "+m.err.Error()) + "\n")
	} else {
		b.WriteString(viz.Metric("da/dt background", fmt.Sprintf("%.4e pc/Myr", viz.PcPerMyr(m.total))) + "\n")
		b.WriteString(viz.Metric("da/dt gas", fmt.Sprintf("%.4e pc/Myr", viz.PcPerMyr(m.gas))) + "\n")
		b.WriteString(viz.Metric("tau background", fmt.Sprintf("%.4e Myr", m.tauTotal/viz.Myr)) + "\n")
		b.WriteString(viz.Metric("tau gas", fmt.Sprintf("%.4e Myr", m.tauGas/viz.Myr)) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(viz.KeyHint.Render("←/→ 0.1 dex  ↑/↓ 0.5 dex  a attenuation  d disk  p policy  q quit"))
	return viz.Panel.Render(b.String())
}

// Run starts the explorer on the terminal.
func Run(cfg *config.Config) error {
	_, err := tea.NewProgram(NewModel(cfg)).Run()
	return err
}
