package database

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"partyinvite/models"
)

// runStoreTests exercises the Store contract against a fresh store per subtest.
func runStoreTests(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("CreateThenGet", func(t *testing.T) { testCreateThenGet(t, newStore(t)) })
	t.Run("ListNewestFirst", func(t *testing.T) { testListNewestFirst(t, newStore(t)) })
	t.Run("ListEmpty", func(t *testing.T) { testListEmpty(t, newStore(t)) })
	t.Run("GetMissing", func(t *testing.T) { testGetMissing(t, newStore(t)) })
	t.Run("Confirm", func(t *testing.T) { testConfirm(t, newStore(t)) })
	t.Run("ConfirmMissing", func(t *testing.T) { testConfirmMissing(t, newStore(t)) })
	t.Run("ConcurrentConfirm", func(t *testing.T) { testConcurrentConfirm(t, newStore(t)) })
	t.Run("Delete", func(t *testing.T) { testDelete(t, newStore(t)) })
	t.Run("DeleteConfirmed", func(t *testing.T) { testDeleteConfirmed(t, newStore(t)) })
	t.Run("Users", func(t *testing.T) { testUsers(t, newStore(t)) })
}

func mustCreate(t *testing.T, s Store, family string, size int) *models.Invitation {
	t.Helper()
	inv, err := models.NewInvitation(family, size)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.CreateInvitation(context.Background(), inv); err != nil {
		t.Fatalf("CreateInvitation() error = %v", err)
	}
	return inv
}

func testCreateThenGet(t *testing.T, s Store) {
	ctx := context.Background()
	created := mustCreate(t, s, "Smith", 4)
	if created.ID == "" {
		t.Fatal("CreateInvitation did not assign an ID")
	}

	got, err := s.GetInvitation(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetInvitation() error = %v", err)
	}
	if got.FamilyName != "Smith" || got.PartySize != 4 {
		t.Errorf("got %q/%d, want Smith/4", got.FamilyName, got.PartySize)
	}
	if got.Confirmed || got.Status != models.StatusOpen || got.ConfirmedAt != nil {
		t.Errorf("new invitation not open: %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}

	other := mustCreate(t, s, "Jones", 2)
	if other.ID == created.ID {
		t.Errorf("duplicate identifier %q", other.ID)
	}
}

func testListNewestFirst(t *testing.T, s Store) {
	first := mustCreate(t, s, "First", 1)
	time.Sleep(5 * time.Millisecond)
	second := mustCreate(t, s, "Second", 2)
	time.Sleep(5 * time.Millisecond)
	third := mustCreate(t, s, "Third", 3)

	list, err := s.ListInvitations(context.Background())
	if err != nil {
		t.Fatalf("ListInvitations() error = %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("len = %d, want 3", len(list))
	}
	want := []string{third.ID, second.ID, first.ID}
	for i, inv := range list {
		if inv.ID != want[i] {
			t.Errorf("list[%d] = %s (%s), want %s", i, inv.ID, inv.FamilyName, want[i])
		}
	}
}

func testListEmpty(t *testing.T, s Store) {
	list, err := s.ListInvitations(context.Background())
	if err != nil {
		t.Fatalf("ListInvitations() error = %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Errorf("ListInvitations() = %v, want empty non-nil slice", list)
	}
}

func testGetMissing(t *testing.T, s Store) {
	_, err := s.GetInvitation(context.Background(), "does-not-exist")
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("GetInvitation() error = %v, want ErrNotFound", err)
	}
}

func testConfirm(t *testing.T, s Store) {
	ctx := context.Background()
	created := mustCreate(t, s, "Smith", 4)
	stored, err := s.GetInvitation(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}

	confirmed, err := s.ConfirmInvitation(ctx, created.ID, time.Now())
	if err != nil {
		t.Fatalf("ConfirmInvitation() error = %v", err)
	}
	if !confirmed.Confirmed || confirmed.Status != models.StatusClosed || confirmed.ConfirmedAt == nil {
		t.Fatalf("confirmed invitation = %+v", confirmed)
	}
	if confirmed.ID != created.ID || confirmed.FamilyName != "Smith" || confirmed.PartySize != 4 {
		t.Errorf("confirmation changed immutable fields: %+v", confirmed)
	}
	if confirmed.ConfirmedAt.Before(stored.CreatedAt) {
		t.Errorf("ConfirmedAt %v before CreatedAt %v", confirmed.ConfirmedAt, stored.CreatedAt)
	}

	got, err := s.GetInvitation(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Confirmed || got.Status != models.StatusClosed || got.ConfirmedAt == nil {
		t.Errorf("confirmation not persisted: %+v", got)
	}

	_, err = s.ConfirmInvitation(ctx, created.ID, time.Now())
	if !errors.Is(err, models.ErrAlreadyConfirmed) {
		t.Errorf("second ConfirmInvitation() error = %v, want ErrAlreadyConfirmed", err)
	}

	again, err := s.GetInvitation(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !again.ConfirmedAt.Equal(*got.ConfirmedAt) {
		t.Errorf("ConfirmedAt changed from %v to %v", got.ConfirmedAt, again.ConfirmedAt)
	}
}

func testConfirmMissing(t *testing.T, s Store) {
	_, err := s.ConfirmInvitation(context.Background(), "does-not-exist", time.Now())
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("ConfirmInvitation() error = %v, want ErrNotFound", err)
	}
}

func testConcurrentConfirm(t *testing.T, s Store) {
	const callers = 10
	created := mustCreate(t, s, "Smith", 4)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		rejected  int
		other     []error
	)
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := s.ConfirmInvitation(context.Background(), created.ID, time.Now())
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, models.ErrAlreadyConfirmed), errors.Is(err, models.ErrClosed):
				rejected++
			default:
				other = append(other, err)
			}
		}()
	}
	close(start)
	wg.Wait()

	if len(other) > 0 {
		t.Fatalf("unexpected errors: %v", other)
	}
	if successes != 1 || rejected != callers-1 {
		t.Errorf("successes = %d, rejected = %d, want 1 and %d", successes, rejected, callers-1)
	}
}

func testDelete(t *testing.T, s Store) {
	ctx := context.Background()
	created := mustCreate(t, s, "Smith", 4)

	removed, err := s.DeleteInvitation(ctx, created.ID)
	if err != nil {
		t.Fatalf("DeleteInvitation() error = %v", err)
	}
	if removed.ID != created.ID || removed.FamilyName != "Smith" {
		t.Errorf("removed = %+v", removed)
	}

	if _, err := s.GetInvitation(ctx, created.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("GetInvitation() after delete error = %v, want ErrNotFound", err)
	}
	if _, err := s.DeleteInvitation(ctx, created.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("second DeleteInvitation() error = %v, want ErrNotFound", err)
	}
}

func testDeleteConfirmed(t *testing.T, s Store) {
	ctx := context.Background()
	created := mustCreate(t, s, "Smith", 4)
	if _, err := s.ConfirmInvitation(ctx, created.ID, time.Now()); err != nil {
		t.Fatal(err)
	}

	removed, err := s.DeleteInvitation(ctx, created.ID)
	if err != nil {
		t.Fatalf("DeleteInvitation() error = %v", err)
	}
	if !removed.Confirmed {
		t.Errorf("removed record lost its confirmation: %+v", removed)
	}
	if _, err := s.GetInvitation(ctx, created.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("GetInvitation() after delete error = %v, want ErrNotFound", err)
	}
	if _, err := s.ConfirmInvitation(ctx, created.ID, time.Now()); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("ConfirmInvitation() after delete error = %v, want ErrNotFound", err)
	}
}

func testUsers(t *testing.T, s Store) {
	ctx := context.Background()
	user := &models.User{
		Name:         "Ana",
		Email:        "ana@example.com",
		PasswordHash: "hash",
		Role:         models.RoleAdmin,
	}
	if err := s.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if user.ID == "" {
		t.Fatal("CreateUser did not assign an ID")
	}

	got, err := s.GetUserByEmail(ctx, "ana@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail() error = %v", err)
	}
	if got.ID != user.ID || got.PasswordHash != "hash" || got.Role != models.RoleAdmin {
		t.Errorf("GetUserByEmail() = %+v", got)
	}

	dup := &models.User{Name: "Other", Email: "ana@example.com", PasswordHash: "x", Role: models.RoleUser}
	if err := s.CreateUser(ctx, dup); !errors.Is(err, models.ErrConflict) {
		t.Errorf("duplicate CreateUser() error = %v, want ErrConflict", err)
	}

	if _, err := s.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, models.ErrUserNotFound) {
		t.Errorf("GetUserByEmail() error = %v, want ErrUserNotFound", err)
	}
}
