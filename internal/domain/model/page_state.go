package model

// PageState is what a host remembers about one visitor's access page.
type PageState struct {
	Visible map[string]bool `json:"visible,omitempty"`
	Alerts  []string        `json:"alerts,omitempty"`
}

// NewPageState returns the initial page: only the issue form is shown.
func NewPageState(issueForm, redeemForm string) *PageState {
	return &PageState{Visible: map[string]bool{issueForm: true, redeemForm: false}}
}

// IsVisible reports the display state of an element; unknown elements are shown.
func (s *PageState) IsVisible(id string) bool {
	v, ok := s.Visible[id]
	return !ok || v
}

func (s *PageState) SetVisible(id string, visible bool) {
	if s.Visible == nil {
		s.Visible = map[string]bool{}
	}
	s.Visible[id] = visible
}

// DrainAlerts returns pending alerts and clears them.
func (s *PageState) DrainAlerts() []string {
	out := s.Alerts
	s.Alerts = nil
	return out
}
