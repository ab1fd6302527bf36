package pager

import (
	"github.com/lfs-lab/certtrack/internal/table"
)

// PageControl is one page-number button. Every page has a control; controls
// outside the window around the current page exist but are hidden.
type PageControl struct {
	Number  int  `json:"number"  yaml:"number"`
	Visible bool `json:"visible" yaml:"visible"`
	Active  bool `json:"active"  yaml:"active"`
}

// NavControls holds the enabled state of the navigation buttons.
type NavControls struct {
	First bool `json:"first" yaml:"first"`
	Prev  bool `json:"prev"  yaml:"prev"`
	Next  bool `json:"next"  yaml:"next"`
	Last  bool `json:"last"  yaml:"last"`
}

// View describes what a front end should draw for the current page.
type View struct {
	State     State         `json:"state"      yaml:"state"`
	PageCount int           `json:"page_count" yaml:"page_count"`
	Total     int           `json:"total"      yaml:"total"`
	Rows      []table.Row   `json:"rows"       yaml:"rows"`
	Controls  []PageControl `json:"controls"   yaml:"controls"`
	Nav       NavControls   `json:"nav"        yaml:"nav"`

	// NoResults is set when the last filter matched nothing; Message is the
	// text of the single placeholder row to draw instead of data rows.
	NoResults bool   `json:"no_results"        yaml:"no_results"`
	Message   string `json:"message,omitempty" yaml:"message,omitempty"`
}

// View returns the render description of the current page.
func (p *Pager) View() View {
	start, end := p.state.Range()

	rows := make([]table.Row, end-start)
	copy(rows, p.rows[start:end])

	controls := make([]PageControl, len(p.controls))
	copy(controls, p.controls)

	v := View{
		State:     p.state,
		PageCount: p.state.PageCount(),
		Total:     len(p.rows),
		Rows:      rows,
		Controls:  controls,
		Nav:       p.nav,
		NoResults: p.noResults,
	}
	if p.noResults {
		v.Message = p.message
	}
	return v
}

// VisibleControls returns the controls inside the window around the current page.
func (v View) VisibleControls() []PageControl {
	out := make([]PageControl, 0, 2*WindowRadius+1)
	for _, c := range v.Controls {
		if c.Visible {
			out = append(out, c)
		}
	}
	return out
}

// FirstItem returns the 1-based position of the first visible row, or 0.
func (v View) FirstItem() int {
	if len(v.Rows) == 0 {
		return 0
	}
	start, _ := v.State.Range()
	return start + 1
}

// LastItem returns the 1-based position of the last visible row, or 0.
func (v View) LastItem() int {
	if len(v.Rows) == 0 {
		return 0
	}
	_, end := v.State.Range()
	return end
}
