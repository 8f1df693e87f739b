package progress

import (
	"context"
	"fmt"
	"io"

	"github.com/bnema/indexdiff/internal/domain"
	"github.com/bnema/indexdiff/internal/ports"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type startMsg struct {
	total int
}

type unitDoneMsg struct {
	result domain.UnitResult
}

type workDoneMsg struct {
	err error
}

type barModel struct {
	spinner spinner.Model
	bar     progress.Model
	work    tea.Cmd
	total   int
	done    int
	failed  int
	last    string
	err     error
	exited  bool
}

func newBarModel(work tea.Cmd) barModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return barModel{
		spinner: s,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(32), progress.WithoutPercentage()),
		work:    work,
		last:    "fetching index lists...",
	}
}

func (m barModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.work)
}

func (m barModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case startMsg:
		m.total = msg.total
		m.done = 0
		m.last = "downloading..."
		return m, nil
	case unitDoneMsg:
		m.done++
		if msg.result.Outcome == domain.UnitFailed {
			m.failed++
		}
		m.last = describe(msg.result)
		return m, nil
	case workDoneMsg:
		m.exited = true
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m barModel) percent() float64 {
	if m.total == 0 {
		return 0
	}

	return float64(m.done) / float64(m.total)
}

func (m barModel) View() string {
	if m.exited {
		return ""
	}

	counter := fmt.Sprintf("%d/%d", m.done, m.total)
	if m.failed > 0 {
		counter += fmt.Sprintf(" (%d failed)", m.failed)
	}

	return fmt.Sprintf("%s %s %s %s\n", m.spinner.View(), m.bar.ViewAs(m.percent()), counter, m.last)
}

// programProgress forwards progress events into a running bubbletea program.
type programProgress struct {
	program *tea.Program
}

var _ ports.Progress = (*programProgress)(nil)

func (p *programProgress) Start(total int) {
	p.program.Send(startMsg{total: total})
}

func (p *programProgress) Done(result domain.UnitResult) {
	p.program.Send(unitDoneMsg{result: result})
}

// Run executes work while drawing a spinner and progress bar on output. The
// progress handed to work feeds the bar; work's error is returned once the
// program has exited.
func Run(ctx context.Context, output io.Writer, work func(context.Context, ports.Progress) error) error {
	reporter := &programProgress{}
	workCmd := func() tea.Msg {
		return workDoneMsg{err: work(ctx, reporter)}
	}

	p := tea.NewProgram(
		newBarModel(workCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)
	reporter.program = p

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	result, ok := finalModel.(barModel)
	if !ok {
		return fmt.Errorf("unexpected final progress model type %T", finalModel)
	}

	return result.err
}
