package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/nhle/todo-manager/internal/model"
	"github.com/nhle/todo-manager/internal/store"
)

// resolveTask finds the task whose id equals ref or uniquely starts with it.
func resolveTask(ctx context.Context, s store.TaskStore, ref string) (model.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return model.Task{}, fmt.Errorf("%w: task id must not be empty", store.ErrValidation)
	}

	tasks, err := s.List(ctx)
	if err != nil {
		return model.Task{}, err
	}

	var matches []model.Task
	for _, t := range tasks {
		if t.ID == ref {
			return t, nil
		}
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}

	switch len(matches) {
	case 0:
		return model.Task{}, fmt.Errorf("task %s: %w", ref, store.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return model.Task{}, fmt.Errorf("%w: id prefix %q matches %d tasks", store.ErrValidation, ref, len(matches))
	}
}
