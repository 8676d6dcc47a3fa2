package services

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/rs/zerolog"

	"todoweb/internal/forms"
	"todoweb/internal/models"
	"todoweb/internal/storage"
)

// fakeTaskStore keeps rows in a map and mimics the drivers' owner
// scoping and ordering.
type fakeTaskStore struct {
	tasks map[string]models.Task
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{tasks: make(map[string]models.Task)}
}

func (f *fakeTaskStore) CreateTask(_ context.Context, task *models.Task) error {
	f.tasks[task.ID] = *task
	return nil
}

func (f *fakeTaskStore) FindTaskByID(_ context.Context, userID, taskID string) (*models.Task, error) {
	task, ok := f.tasks[taskID]
	if !ok || task.UserID != userID {
		return nil, storage.ErrNotFound
	}
	return &task, nil
}

func (f *fakeTaskStore) ListTasksByUser(_ context.Context, userID string, deleted bool) ([]models.Task, error) {
	var tasks []models.Task
	for _, task := range f.tasks {
		if task.UserID == userID && task.IsDeleted == deleted {
			tasks = append(tasks, task)
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		if !tasks[i].DueDate.Equal(tasks[j].DueDate) {
			return tasks[i].DueDate.Before(tasks[j].DueDate)
		}
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
		}
		return tasks[i].ID < tasks[j].ID
	})
	return tasks, nil
}

func (f *fakeTaskStore) UpdateTask(_ context.Context, task *models.Task) error {
	existing, ok := f.tasks[task.ID]
	if !ok || existing.UserID != task.UserID {
		return storage.ErrNotFound
	}
	f.tasks[task.ID] = *task
	return nil
}

func newTestTaskService(store storage.TaskStore) TaskService {
	return NewTaskService(zerolog.Nop(), store)
}

func validInput() forms.TaskInput {
	return forms.TaskInput{
		Title:    "Buy milk",
		DueDate:  "2025-01-01T10:00",
		Repeat:   "none",
		Priority: "important",
	}
}

func TestCreatePersistsOwnedTask(t *testing.T) {
	store := newFakeTaskStore()
	svc := newTestTaskService(store)
	ctx := context.Background()

	task, fieldErrors, err := svc.Create(ctx, "user-a", validInput())
	if err != nil || fieldErrors != nil {
		t.Fatalf("Create: err = %v, fieldErrors = %v", err, fieldErrors)
	}
	if task.ID == "" {
		t.Error("expected a generated id")
	}
	if task.UserID != "user-a" {
		t.Errorf("UserID = %q", task.UserID)
	}
	if task.IsDeleted {
		t.Error("new task must not be deleted")
	}
	if len(store.tasks) != 1 {
		t.Fatalf("store holds %d rows, want 1", len(store.tasks))
	}

	// Round-trip through the listing.
	active, err := svc.ListActive(ctx, "user-a")
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 1 {
		t.Fatalf("ListActive returned %d tasks, want 1", len(active))
	}
	got := active[0]
	if got.Title != "Buy milk" || got.Priority != models.PriorityImportant ||
		got.Repeat != models.RepeatNone || got.IsDeleted {
		t.Errorf("round-trip mismatch: %+v", got)
	}
	if got.DueDate.Hour() != 10 {
		t.Errorf("DueDate = %v", got.DueDate)
	}

	// And never in someone else's listing.
	other, err := svc.ListActive(ctx, "user-b")
	if err != nil {
		t.Fatal(err)
	}
	if len(other) != 0 {
		t.Errorf("user-b sees %d tasks, want 0", len(other))
	}
}

func TestCreateInvalidInputPersistsNothing(t *testing.T) {
	store := newFakeTaskStore()
	svc := newTestTaskService(store)

	input := forms.TaskInput{Description: "only a description"}
	task, fieldErrors, err := svc.Create(context.Background(), "user-a", input)
	if err != nil {
		t.Fatal(err)
	}
	if task != nil {
		t.Error("expected nil task")
	}
	for _, field := range []string{"title", "due_date", "repeat", "priority"} {
		if _, ok := fieldErrors[field]; !ok {
			t.Errorf("missing error for %q, got %v", field, fieldErrors)
		}
	}
	if len(store.tasks) != 0 {
		t.Errorf("store holds %d rows, want 0", len(store.tasks))
	}
}

func TestListActiveIsOwnerScopedAndOrdered(t *testing.T) {
	store := newFakeTaskStore()
	svc := newTestTaskService(store)
	ctx := context.Background()

	first := validInput()
	first.Title = "Earlier"
	first.DueDate = "2025-01-01T08:00"
	second := validInput()
	second.Title = "Later"
	second.DueDate = "2025-01-02T08:00"

	if _, _, err := svc.Create(ctx, "user-a", second); err != nil {
		t.Fatal(err)
	}
	if _, _, err := svc.Create(ctx, "user-a", first); err != nil {
		t.Fatal(err)
	}
	if _, _, err := svc.Create(ctx, "user-b", validInput()); err != nil {
		t.Fatal(err)
	}

	listA, err := svc.ListActive(ctx, "user-a")
	if err != nil {
		t.Fatal(err)
	}
	if len(listA) != 2 {
		t.Fatalf("ListActive(user-a) returned %d tasks, want 2", len(listA))
	}
	if listA[0].Title != "Earlier" || listA[1].Title != "Later" {
		t.Errorf("order = %q, %q", listA[0].Title, listA[1].Title)
	}

	listB, err := svc.ListActive(ctx, "user-b")
	if err != nil {
		t.Fatal(err)
	}
	if len(listB) != 1 {
		t.Errorf("ListActive(user-b) returned %d tasks, want 1", len(listB))
	}
}

func TestEditUpdatesEveryFieldExceptOwner(t *testing.T) {
	store := newFakeTaskStore()
	svc := newTestTaskService(store)
	ctx := context.Background()

	created, _, err := svc.Create(ctx, "user-a", validInput())
	if err != nil {
		t.Fatal(err)
	}

	input := forms.TaskInput{
		Title:       "Buy oat milk",
		Description: "from the corner shop",
		DueDate:     "2025-02-01T09:00",
		Repeat:      "weekly",
		Priority:    "very_important",
	}
	updated, fieldErrors, err := svc.Edit(ctx, "user-a", created.ID, input)
	if err != nil || fieldErrors != nil {
		t.Fatalf("Edit: err = %v, fieldErrors = %v", err, fieldErrors)
	}
	if updated.ID != created.ID || updated.UserID != "user-a" {
		t.Errorf("id/owner changed: %+v", updated)
	}
	if updated.Title != "Buy oat milk" || updated.Repeat != models.RepeatWeekly ||
		updated.Priority != models.PriorityVeryImportant {
		t.Errorf("fields not applied: %+v", updated)
	}

	stored := store.tasks[created.ID]
	if stored.Title != "Buy oat milk" {
		t.Errorf("store not updated: %+v", stored)
	}
}

func TestEditValidationFailureLeavesStoreUnchanged(t *testing.T) {
	store := newFakeTaskStore()
	svc := newTestTaskService(store)
	ctx := context.Background()

	created, _, err := svc.Create(ctx, "user-a", validInput())
	if err != nil {
		t.Fatal(err)
	}
	before := store.tasks[created.ID]

	bad := validInput()
	bad.Title = ""
	_, fieldErrors, err := svc.Edit(ctx, "user-a", created.ID, bad)
	if err != nil {
		t.Fatal(err)
	}
	if fieldErrors == nil {
		t.Fatal("expected field errors")
	}

	after := store.tasks[created.ID]
	if after != before {
		t.Errorf("store changed:\nbefore %+v\nafter  %+v", before, after)
	}
}

func TestSoftDeleteMovesTaskToTrash(t *testing.T) {
	store := newFakeTaskStore()
	svc := newTestTaskService(store)
	ctx := context.Background()

	created, _, err := svc.Create(ctx, "user-a", validInput())
	if err != nil {
		t.Fatal(err)
	}

	deleted, err := svc.SoftDelete(ctx, "user-a", created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if deleted.Title != created.Title {
		t.Errorf("Title = %q", deleted.Title)
	}

	active, _ := svc.ListActive(ctx, "user-a")
	for _, task := range active {
		if task.ID == created.ID {
			t.Error("soft-deleted task still listed as active")
		}
	}

	trash, _ := svc.ListTrash(ctx, "user-a")
	if len(trash) != 1 || trash[0].ID != created.ID {
		t.Errorf("trash = %+v", trash)
	}

	// The row itself survives.
	if _, ok := store.tasks[created.ID]; !ok {
		t.Error("row removed from storage")
	}
}

func TestOwnerIsolation(t *testing.T) {
	store := newFakeTaskStore()
	svc := newTestTaskService(store)
	ctx := context.Background()

	created, _, err := svc.Create(ctx, "user-b", validInput())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Get(ctx, "user-a", created.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Get: err = %v, want ErrTaskNotFound", err)
	}
	if _, _, err := svc.Edit(ctx, "user-a", created.ID, validInput()); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Edit: err = %v, want ErrTaskNotFound", err)
	}
	if _, err := svc.SoftDelete(ctx, "user-a", created.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("SoftDelete: err = %v, want ErrTaskNotFound", err)
	}

	if stored := store.tasks[created.ID]; stored.IsDeleted {
		t.Error("foreign delete attempt mutated the row")
	}
}

func TestSoftDeleteNonexistentTask(t *testing.T) {
	store := newFakeTaskStore()
	svc := newTestTaskService(store)

	_, err := svc.SoftDelete(context.Background(), "user-a", "no-such-id")
	if !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("err = %v, want ErrTaskNotFound", err)
	}
	if len(store.tasks) != 0 {
		t.Error("store changed")
	}
}
