package domain

import "fmt"

// CycleWarningPrefix starts every message returned by DetectCycles.
const CycleWarningPrefix = "Circular dependency detected involving task ID: "

// frame is one level of the depth-first walk.
type frame struct {
	key  any
	deps []any
	next int
}

// DetectCycles walks the dependency graph of tasks and returns one warning for
// every traversal start, in input order, that reaches a cycle. Dependencies on
// ids outside the batch are ignored. The walk uses an explicit stack so deep
// chains cannot exhaust the goroutine stack.
func DetectCycles(tasks []RawTask) []string {
	warnings := []string{}

	// Edges of an id come from the first task carrying it.
	edges := make(map[any][]any, len(tasks))
	for _, task := range tasks {
		id, ok := task.ID()
		if !ok {
			continue
		}
		key, ok := idKey(id)
		if !ok {
			continue
		}
		if _, seen := edges[key]; !seen {
			edges[key] = task.Dependencies()
		}
	}

	visited := make(map[any]bool, len(edges))
	for _, task := range tasks {
		id, ok := task.ID()
		if !ok {
			continue
		}
		key, ok := idKey(id)
		if !ok || visited[key] || !startsTraversal(key) {
			continue
		}
		if reachesCycle(key, edges, visited) {
			warnings = append(warnings, fmt.Sprintf("%s%v", CycleWarningPrefix, id))
		}
	}

	return warnings
}

// startsTraversal reports whether an id may start a walk. Zero-valued ids
// (0, "", false) never do, though other walks still pass through them.
func startsTraversal(key any) bool {
	switch k := key.(type) {
	case float64:
		return k != 0
	case string:
		return k != ""
	case bool:
		return k
	}
	return true
}

// reachesCycle runs a depth-first walk from start and stops at the first
// back-edge to a node on the current path.
func reachesCycle(start any, edges map[any][]any, visited map[any]bool) bool {
	onPath := map[any]bool{start: true}
	visited[start] = true
	stack := []frame{{key: start, deps: edges[start]}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next >= len(top.deps) {
			delete(onPath, top.key)
			stack = stack[:len(stack)-1]
			continue
		}

		dep := top.deps[top.next]
		top.next++

		key, ok := idKey(dep)
		if !ok {
			continue
		}
		if _, known := edges[key]; !known {
			continue
		}
		if !visited[key] {
			visited[key] = true
			onPath[key] = true
			stack = append(stack, frame{key: key, deps: edges[key]})
			continue
		}
		if onPath[key] {
			return true
		}
	}

	return false
}
