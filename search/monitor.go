package search

import (
	"github.com/poiesic/sift/core"
)

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	AfterAnalysis(desc core.QueryDescriptor)
	ItemScored(item *core.Item, score float64, reason string)
	ItemExcluded(item *core.Item)
	Finish(results []*core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                               {}
func (n *noopMonitor) AfterAnalysis(_ core.QueryDescriptor)         {}
func (n *noopMonitor) ItemScored(_ *core.Item, _ float64, _ string) {}
func (n *noopMonitor) ItemExcluded(_ *core.Item)                    {}
func (n *noopMonitor) Finish(_ []*core.SearchResult)                {}
