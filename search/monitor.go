package search

// Monitor provides hooks to observe the search process.
// Implement this interface to track intermediate scores during ranking.
type Monitor interface {
	Start(query string, strategy Strategy, candidateCount int)
	StrategyScored(strategy Strategy, scores map[string]float64)
	Finish(result *Result)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ Strategy, _ int)            {}
func (n *noopMonitor) StrategyScored(_ Strategy, _ map[string]float64) {}
func (n *noopMonitor) Finish(_ *Result)                             {}
