package domain

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// BuildHierarchicalList flattens a chart of accounts into depth-first,
// parent-before-child order. Siblings are sorted by account number using
// plain string comparison, so "10" sorts before "2".
//
// An account whose parent is not in the input is treated as a root. An
// account that can only be reached through a parent cycle yields
// ErrAccountHierarchyCycle.
func BuildHierarchicalList(accounts []Account) ([]AccountWithDepth, error) {
	byID := make(map[string]struct{}, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = struct{}{}
	}

	children := make(map[string][]Account)
	var roots []Account
	for _, a := range accounts {
		if a.ParentAccountID == nil {
			roots = append(roots, a)
			continue
		}
		if _, ok := byID[*a.ParentAccountID]; !ok {
			roots = append(roots, a)
			continue
		}
		children[*a.ParentAccountID] = append(children[*a.ParentAccountID], a)
	}

	sortByAccountNumber(roots)
	for parent := range children {
		sortByAccountNumber(children[parent])
	}

	result := make([]AccountWithDepth, 0, len(accounts))
	visited := make(map[string]bool, len(accounts))

	// Explicit stack instead of recursion so deep charts cannot blow the stack.
	type frame struct {
		account Account
		depth   int
	}
	stack := make([]frame, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{account: roots[i]})
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited[top.account.ID] {
			continue
		}
		visited[top.account.ID] = true
		result = append(result, AccountWithDepth{Account: top.account, Depth: top.depth})

		kids := children[top.account.ID]
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, frame{account: kids[i], depth: top.depth + 1})
		}
	}

	if len(result) < len(byID) {
		var stuck []string
		for _, a := range accounts {
			if !visited[a.ID] {
				stuck = append(stuck, a.AccountNumber)
			}
		}
		sort.Strings(stuck)
		return nil, fmt.Errorf("%w: account %s", ErrAccountHierarchyCycle, stuck[0])
	}

	return result, nil
}

func sortByAccountNumber(accounts []Account) {
	sort.SliceStable(accounts, func(i, j int) bool {
		return accounts[i].AccountNumber < accounts[j].AccountNumber
	})
}

// FilterBySearch keeps the accounts whose name, number or description
// contains query, ignoring case. A blank query returns the input slice
// itself. Depths are left as they were.
func FilterBySearch(accounts []AccountWithDepth, query string) []AccountWithDepth {
	query = strings.TrimSpace(query)
	if query == "" {
		return accounts
	}

	fold := cases.Fold()
	needle := fold.String(query)

	matches := make([]AccountWithDepth, 0)
	for _, item := range accounts {
		a := item.Account
		if strings.Contains(fold.String(a.Name), needle) ||
			strings.Contains(fold.String(a.AccountNumber), needle) ||
			(a.Description != nil && strings.Contains(fold.String(*a.Description), needle)) {
			matches = append(matches, item)
		}
	}

	return matches
}

// IsDescendant reports whether candidate sits below ancestorID in the chart.
// Used to reject parent changes that would close a loop.
func IsDescendant(accounts []Account, ancestorID, candidateID string) bool {
	parents := make(map[string]string, len(accounts))
	for _, a := range accounts {
		if a.ParentAccountID != nil {
			parents[a.ID] = *a.ParentAccountID
		}
	}

	seen := make(map[string]bool)
	for cur, ok := parents[candidateID]; ok; cur, ok = parents[cur] {
		if cur == ancestorID {
			return true
		}
		if seen[cur] {
			return false
		}
		seen[cur] = true
	}

	return false
}
