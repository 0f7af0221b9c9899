package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SundayYogurt/application_service/internal/apperr"
	"github.com/SundayYogurt/application_service/internal/domain"
	"github.com/SundayYogurt/application_service/internal/repository"
	"github.com/SundayYogurt/application_service/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func talentApplication(email string) *domain.Application {
	app := &domain.Application{
		Name:         "Asha Rao",
		Email:        email,
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		Status:       domain.ApplicationStatusPending,
	}
	_ = app.SetPayload(domain.TalentProfile{
		Role:      domain.TalentRoleActing,
		Category:  "Film",
		Skills:    domain.NewStringSet("Acting", "Dance"),
		Languages: domain.NewStringSet("Hindi", "English"),
		Location:  "Mumbai",
		Bio:       "Stage and screen actor with ten years of regional theatre work.",
		SocialMediaReels: domain.SocialMediaReels{
			{ID: "r1", Platform: domain.ReelPlatformYouTube, URL: "https://youtu.be/abc", Title: "Showreel"},
		},
	})
	return app
}

func TestApplicationCreateAndFind(t *testing.T) {
	ctx := context.Background()
	repos := repository.NewStore(testutil.OpenDB(t)).Repositories()

	app := talentApplication("asha@example.com")
	require.NoError(t, repos.Applications.Create(ctx, app))
	require.NotEqual(t, uuid.Nil, app.ID)

	got, err := repos.Applications.FindByID(ctx, app.ID)
	require.NoError(t, err)
	assert.Empty(t, got.PasswordHash)
	assert.Equal(t, domain.PurposeTalent, got.Purpose)
	assert.Equal(t, domain.StringSet{"Acting", "Dance"}, got.Talent.Skills)
	require.Len(t, got.Talent.SocialMediaReels, 1)
	assert.Equal(t, "Showreel", got.Talent.SocialMediaReels[0].Title)

	withHash, err := repos.Applications.FindByIDWithCredential(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, app.PasswordHash, withHash.PasswordHash)

	_, err = repos.Applications.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestApplicationCreateDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repos := repository.NewStore(testutil.OpenDB(t)).Repositories()

	require.NoError(t, repos.Applications.Create(ctx, talentApplication("dup@example.com")))
	err := repos.Applications.Create(ctx, talentApplication("dup@example.com"))
	assert.ErrorIs(t, err, apperr.ErrDuplicate)

	exists, err := repos.Applications.ExistsByEmail(ctx, "dup@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestApplicationListFiltersAndOrders(t *testing.T) {
	ctx := context.Background()
	repos := repository.NewStore(testutil.OpenDB(t)).Repositories()

	base := time.Now().Add(-time.Hour)
	for i, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		app := talentApplication(email)
		app.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repos.Applications.Create(ctx, app))
	}

	all, err := repos.Applications.List(ctx, repository.ApplicationFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c@example.com", all[0].Email)
	for _, a := range all {
		assert.Empty(t, a.PasswordHash)
	}

	ok, err := repos.Applications.MarkDecided(ctx, all[0].ID, repository.Decision{
		To: domain.ApplicationStatusRejected, ReviewerID: "rev-1", At: time.Now(),
	})
	require.NoError(t, err)
	require.True(t, ok)

	pending := domain.ApplicationStatusPending
	onlyPending, err := repos.Applications.List(ctx, repository.ApplicationFilter{Status: &pending})
	require.NoError(t, err)
	assert.Len(t, onlyPending, 2)

	page, err := repos.Applications.List(ctx, repository.ApplicationFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "b@example.com", page[0].Email)

	counts, err := repos.Applications.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[domain.ApplicationStatusPending])
	assert.Equal(t, int64(1), counts[domain.ApplicationStatusRejected])
	assert.Zero(t, counts[domain.ApplicationStatusApproved])
}

func TestMarkDecidedOnlyOneWinner(t *testing.T) {
	ctx := context.Background()
	repos := repository.NewStore(testutil.OpenDB(t)).Repositories()

	app := talentApplication("race@example.com")
	require.NoError(t, repos.Applications.Create(ctx, app))

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			to := domain.ApplicationStatusApproved
			if i%2 == 1 {
				to = domain.ApplicationStatusRejected
			}
			ok, err := repos.Applications.MarkDecided(ctx, app.ID, repository.Decision{
				To: to, ReviewerID: "rev", At: time.Now(),
			})
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, wins)

	got, err := repos.Applications.FindByID(ctx, app.ID)
	require.NoError(t, err)
	assert.False(t, got.IsPending())
	require.NotNil(t, got.ReviewedBy)
	assert.Equal(t, "rev", *got.ReviewedBy)
}

func TestMarkDecidedRejectsNonDecision(t *testing.T) {
	repos := repository.NewStore(testutil.OpenDB(t)).Repositories()
	_, err := repos.Applications.MarkDecided(context.Background(), uuid.New(), repository.Decision{
		To: domain.ApplicationStatusPending,
	})
	assert.Error(t, err)
}

func TestAccountCreateDuplicate(t *testing.T) {
	ctx := context.Background()
	repos := repository.NewStore(testutil.OpenDB(t)).Repositories()

	app := talentApplication("acc@example.com")
	app.ID = uuid.New()
	app.Status = domain.ApplicationStatusApproved
	acc, err := domain.NewAccountFromApplication(app, uuid.New(), time.Now())
	require.NoError(t, err)
	require.NoError(t, repos.Accounts.Create(ctx, acc))

	exists, err := repos.Accounts.ExistsByEmail(ctx, "acc@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	byApp, err := repos.Accounts.FindByApplicationID(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, app.PasswordHash, byApp.PasswordHash)
	assert.Equal(t, domain.AccountRoleTalent, byApp.Role)

	again, err := domain.NewAccountFromApplication(app, uuid.New(), time.Now())
	require.NoError(t, err)
	again.ApplicationID = nil
	assert.ErrorIs(t, repos.Accounts.Create(ctx, again), apperr.ErrDuplicate)

	_, err = repos.Accounts.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestWithinTxRollsBack(t *testing.T) {
	ctx := context.Background()
	store := repository.NewStore(testutil.OpenDB(t))
	boom := errors.New("boom")

	err := store.WithinTx(ctx, func(r repository.Repositories) error {
		if err := r.Applications.Create(ctx, talentApplication("tx@example.com")); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	exists, err := store.Repositories().Applications.ExistsByEmail(ctx, "tx@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, store.Ping(ctx))
}

func TestOutboxClaimLeaseAndRetry(t *testing.T) {
	ctx := context.Background()
	repos := repository.NewStore(testutil.OpenDB(t)).Repositories()
	now := time.Now()

	msg := &domain.NotificationOutbox{
		ApplicationID: uuid.New(),
		Kind:          domain.NotificationApproved,
		Recipient:     "asha@example.com",
		ApplicantName: "Asha Rao",
		NextAttemptAt: now.Add(-time.Second),
	}
	require.NoError(t, repos.Outbox.Enqueue(ctx, msg))

	claimed, err := repos.Outbox.ClaimDue(ctx, now, now.Add(time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	assert.Equal(t, 1, claimed[0].Attempts)

	// leased: not due again until the lease expires
	again, err := repos.Outbox.ClaimDue(ctx, now, now.Add(time.Minute), 10)
	require.NoError(t, err)
	assert.Empty(t, again)

	require.NoError(t, repos.Outbox.MarkRetry(ctx, msg.ID, 1, now.Add(-time.Second), "smtp down"))
	retried, err := repos.Outbox.ClaimDue(ctx, now, now.Add(time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, retried, 1)
	assert.Equal(t, 2, retried[0].Attempts)
	require.NotNil(t, retried[0].LastError)
	assert.Equal(t, "smtp down", *retried[0].LastError)

	require.NoError(t, repos.Outbox.MarkSent(ctx, msg.ID, 2, now))
	rows, err := repos.Outbox.ListByApplication(ctx, msg.ApplicationID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.OutboxStatusSent, rows[0].Status)
	assert.NotNil(t, rows[0].SentAt)
}

func TestOutboxMarkFailedStopsClaims(t *testing.T) {
	ctx := context.Background()
	repos := repository.NewStore(testutil.OpenDB(t)).Repositories()
	now := time.Now()

	msg := &domain.NotificationOutbox{
		ApplicationID: uuid.New(),
		Kind:          domain.NotificationRejected,
		Recipient:     "b@example.com",
		ApplicantName: "B",
		NextAttemptAt: now.Add(-time.Second),
	}
	require.NoError(t, repos.Outbox.Enqueue(ctx, msg))
	require.NoError(t, repos.Outbox.MarkFailed(ctx, msg.ID, 0, "gave up"))

	claimed, err := repos.Outbox.ClaimDue(ctx, now, now.Add(time.Minute), 10)
	require.NoError(t, err)
	assert.Empty(t, claimed)
}

func TestOutboxStaleWorkerCannotSettle(t *testing.T) {
	ctx := context.Background()
	repos := repository.NewStore(testutil.OpenDB(t)).Repositories()
	now := time.Now()

	msg := &domain.NotificationOutbox{
		ApplicationID: uuid.New(),
		Kind:          domain.NotificationApproved,
		Recipient:     "slow@example.com",
		ApplicantName: "Slow",
		NextAttemptAt: now.Add(-time.Second),
	}
	require.NoError(t, repos.Outbox.Enqueue(ctx, msg))

	// the first lease has already run out when the second worker polls
	first, err := repos.Outbox.ClaimDue(ctx, now, now.Add(-time.Millisecond), 10)
	require.NoError(t, err)
	require.Len(t, first, 1)
	second, err := repos.Outbox.ClaimDue(ctx, now, now.Add(time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, 2, second[0].Attempts)

	assert.ErrorIs(t, repos.Outbox.MarkFailed(ctx, msg.ID, first[0].Attempts, "timeout"), repository.ErrLeaseLost)
	assert.ErrorIs(t, repos.Outbox.MarkSent(ctx, msg.ID, first[0].Attempts, now), repository.ErrLeaseLost)

	require.NoError(t, repos.Outbox.MarkSent(ctx, msg.ID, second[0].Attempts, now))
	rows, err := repos.Outbox.ListByApplication(ctx, msg.ApplicationID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.OutboxStatusSent, rows[0].Status)
	assert.Nil(t, rows[0].LastError)

	assert.ErrorIs(t, repos.Outbox.MarkRetry(ctx, msg.ID, second[0].Attempts, now, "late"), repository.ErrLeaseLost)
}

func TestAuditRecordAndList(t *testing.T) {
	ctx := context.Background()
	repos := repository.NewStore(testutil.OpenDB(t)).Repositories()
	appID := uuid.New()

	require.NoError(t, repos.Audits.Record(ctx, &domain.DecisionAudit{
		ActorID:       "rev-1",
		Action:        domain.AuditActionReject,
		ApplicationID: appID,
		PreviousState: domain.ApplicationStatusPending,
		NewState:      domain.ApplicationStatusRejected,
		IPAddress:     "10.0.0.1",
	}))

	rows, err := repos.Audits.ListByApplication(ctx, appID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "rev-1", rows[0].ActorID)
	assert.Equal(t, domain.ApplicationStatusRejected, rows[0].NewState)
}
