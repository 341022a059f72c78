package importer

import "github.com/kkpan11/logseq/internal/tree"

// Job pairs a batch position with its page node; consumed exactly once.
type Job struct {
	Index int
	Node  *tree.Node
}

// JobResult is the structured per-page outcome. A failed page carries its
// *PageMaterializationError; the batch itself is unaffected.
type JobResult struct {
	Index int    `json:"index"`
	Title string `json:"title"`
	Err   error  `json:"-"`
}

// Report aggregates the per-job results of one import run.
type Report struct {
	Total         int         `json:"total"`
	Results       []JobResult `json:"results"`
	ResolutionErr error       `json:"-"`
}

// Failed counts the pages whose materialization failed.
func (r *Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Err != nil {
			n++
		}
	}
	return n
}

// Succeeded counts the pages materialized without error.
func (r *Report) Succeeded() int {
	return len(r.Results) - r.Failed()
}

// SucceededTitles returns the titles of successfully materialized pages in
// processing order.
func (r *Report) SucceededTitles() []string {
	var titles []string
	for _, res := range r.Results {
		if res.Err == nil {
			titles = append(titles, res.Title)
		}
	}
	return titles
}
