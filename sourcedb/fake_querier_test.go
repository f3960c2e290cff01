package sourcedb

import (
	"context"
	"fmt"
	"strings"
)

// graphQuerier is an in-memory Querier that counts calls per method and label.
type graphQuerier struct {
	targets []string
	kinds   map[string]string
	srcs    map[string][]string
	deps    map[string][]string
	calls   map[string]int
}

func newGraphQuerier() *graphQuerier {
	return &graphQuerier{
		kinds: make(map[string]string),
		srcs:  make(map[string][]string),
		deps:  make(map[string][]string),
		calls: make(map[string]int),
	}
}

func (q *graphQuerier) add(label, kind string, srcs []string, deps ...string) {
	q.kinds[label] = kind
	q.srcs[label] = srcs
	q.deps[label] = deps
	if strings.HasPrefix(kind, "py_") {
		q.targets = append(q.targets, label)
	}
}

func (q *graphQuerier) ListPythonNodes(context.Context) ([]string, error) {
	q.calls["list"]++
	return q.targets, nil
}

func (q *graphQuerier) SourceFileLabels(_ context.Context, label string) ([]string, error) {
	q.calls["srcs "+label]++
	return q.srcs[label], nil
}

func (q *graphQuerier) DependencyLabels(_ context.Context, label string) ([]string, error) {
	q.calls["deps "+label]++
	return q.deps[label], nil
}

func (q *graphQuerier) KindOf(_ context.Context, label string) (string, error) {
	q.calls["kind "+label]++
	kind, ok := q.kinds[label]
	if !ok {
		return "", fmt.Errorf("unknown label %s", label)
	}
	return kind, nil
}

func (q *graphQuerier) kindCalls() int {
	total := 0
	for key, n := range q.calls {
		if strings.HasPrefix(key, "kind ") {
			total += n
		}
	}
	return total
}
