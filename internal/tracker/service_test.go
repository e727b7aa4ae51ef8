package tracker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dvloznov/spendwise/internal/domain"
	"github.com/dvloznov/spendwise/internal/jobs"
	"github.com/dvloznov/spendwise/internal/logger"
	"github.com/dvloznov/spendwise/internal/store"
	"github.com/dvloznov/spendwise/internal/store/mocks"
	"github.com/dvloznov/spendwise/internal/tracker"
	"github.com/golang/mock/gomock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var march20 = time.Date(2024, time.March, 20, 10, 0, 0, 0, time.UTC)

func testContext() context.Context {
	return logger.WithContext(context.Background(), zerolog.Nop())
}

func newMockService(t *testing.T, opts tracker.Options) (*tracker.Service, *mocks.MockRepository, *mocks.MockInsightStore) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	insights := mocks.NewMockInsightStore(ctrl)
	if opts.UserID == "" {
		opts.UserID = "u1"
	}
	opts.Now = func() time.Time { return march20 }
	return tracker.NewService(repo, insights, opts), repo, insights
}

func stored(date, description string, amount float64, category string) domain.StoredTransaction {
	month, _ := domain.MonthKey(date)
	return domain.StoredTransaction{
		CategorizedTransaction: domain.CategorizedTransaction{
			Transaction: domain.Transaction{Date: date, Description: description, Amount: amount},
			Category:    category,
		},
		Month: month,
	}
}

func TestService_Settings(t *testing.T) {
	tests := []struct {
		name   string
		stored domain.Settings
		want   domain.Settings
	}{
		{
			name:   "defaults fill unset fields",
			stored: domain.Settings{UserID: "u1"},
			want:   domain.Settings{UserID: "u1", MonthlyIncome: 4000, BudgetCycleStart: 15, ProEnabled: true},
		},
		{
			name:   "stored values win",
			stored: domain.Settings{UserID: "u1", MonthlyIncome: 5200, BudgetCycleStart: 1},
			want:   domain.Settings{UserID: "u1", MonthlyIncome: 5200, BudgetCycleStart: 1, ProEnabled: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newMockService(t, tracker.Options{MonthlyIncome: 4000, BudgetCycleStart: 15, ProEnabled: true})
			repo.EXPECT().Settings(gomock.Any(), "u1").Return(tt.stored, nil)

			got, err := svc.Settings(testContext())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_SaveSettings_Validation(t *testing.T) {
	svc, repo, _ := newMockService(t, tracker.Options{})

	err := svc.SaveSettings(testContext(), domain.Settings{BudgetCycleStart: 40})
	assert.ErrorIs(t, err, tracker.ErrInvalidInput)

	err = svc.SaveSettings(testContext(), domain.Settings{MonthlyIncome: -1})
	assert.ErrorIs(t, err, tracker.ErrInvalidInput)

	repo.EXPECT().SaveSettings(gomock.Any(), domain.Settings{UserID: "u1", MonthlyIncome: 3000, BudgetCycleStart: 5}).Return(nil)
	require.NoError(t, svc.SaveSettings(testContext(), domain.Settings{UserID: "someone-else", MonthlyIncome: 3000, BudgetCycleStart: 5}))
}

func TestService_SaveBudget(t *testing.T) {
	tests := []struct {
		name   string
		budget domain.Budget
		want   *domain.Budget
	}{
		{name: "defaults to current month", budget: domain.Budget{Category: " Food ", Amount: 400}, want: &domain.Budget{Category: "Food", Amount: 400, Month: "2024-03"}},
		{name: "explicit month", budget: domain.Budget{Category: "Rent", Amount: 1200, Month: "2024-04"}, want: &domain.Budget{Category: "Rent", Amount: 1200, Month: "2024-04"}},
		{name: "missing category", budget: domain.Budget{Amount: 10}},
		{name: "bad month", budget: domain.Budget{Category: "Food", Amount: 10, Month: "March"}},
		{name: "negative amount", budget: domain.Budget{Category: "Food", Amount: -5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newMockService(t, tracker.Options{})
			if tt.want != nil {
				repo.EXPECT().SaveBudget(gomock.Any(), *tt.want).Return(nil)
			}

			err := svc.SaveBudget(testContext(), tt.budget)
			if tt.want == nil {
				assert.ErrorIs(t, err, tracker.ErrInvalidInput)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestService_DeleteBudget_NotFound(t *testing.T) {
	svc, repo, _ := newMockService(t, tracker.Options{})
	repo.EXPECT().DeleteBudget(gomock.Any(), "Food", "2024-03").Return(store.ErrNotFound)

	err := svc.DeleteBudget(testContext(), "Food", "")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestService_Month(t *testing.T) {
	t.Run("invalid key", func(t *testing.T) {
		svc, _, _ := newMockService(t, tracker.Options{})
		_, err := svc.Month(testContext(), "03/2024")
		assert.ErrorIs(t, err, tracker.ErrInvalidInput)
	})

	t.Run("no data", func(t *testing.T) {
		svc, repo, _ := newMockService(t, tracker.Options{})
		repo.EXPECT().TransactionsByMonth(gomock.Any(), "2024-02").Return(nil, nil)
		_, err := svc.Month(testContext(), "2024-02")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("summary", func(t *testing.T) {
		svc, repo, _ := newMockService(t, tracker.Options{})
		repo.EXPECT().TransactionsByMonth(gomock.Any(), "2024-03").Return([]domain.StoredTransaction{
			stored("03/01/2024", "TRAILS APARTMENT", -1200, "Rent"),
			stored("03/15/2024", "ACME PAYROLL", 3000, "Income"),
		}, nil)

		got, err := svc.Month(testContext(), "2024-03")
		require.NoError(t, err)
		assert.Equal(t, "2024-03", got.Month)
		assert.Len(t, got.Transactions, 2)
		assert.InDelta(t, 3000, got.Summary.TotalIncome, 0.001)
		assert.InDelta(t, 1200, got.Summary.TotalExpenses, 0.001)
	})

	t.Run("store error", func(t *testing.T) {
		svc, repo, _ := newMockService(t, tracker.Options{})
		repo.EXPECT().TransactionsByMonth(gomock.Any(), "2024-03").Return(nil, errors.New("bigquery down"))
		_, err := svc.Month(testContext(), "2024-03")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bigquery down")
	})
}

func TestService_AdvancedSafeToSpend_RequiresPro(t *testing.T) {
	svc, repo, _ := newMockService(t, tracker.Options{})
	repo.EXPECT().AllTransactions(gomock.Any()).Return(nil, nil)
	repo.EXPECT().Settings(gomock.Any(), "u1").Return(domain.Settings{UserID: "u1"}, nil)
	repo.EXPECT().Budgets(gomock.Any(), "2024-03").Return(nil, nil)

	_, err := svc.AdvancedSafeToSpend(testContext())
	assert.ErrorIs(t, err, tracker.ErrProRequired)
}

func TestService_AdvancedSafeToSpend_UsesRecurring(t *testing.T) {
	svc, repo, insights := newMockService(t, tracker.Options{ProEnabled: true, MonthlyIncome: 3000})
	repo.EXPECT().AllTransactions(gomock.Any()).Return([]domain.StoredTransaction{
		stored("03/05/2024", "KROGER", -200, "Food"),
	}, nil)
	repo.EXPECT().Settings(gomock.Any(), "u1").Return(domain.Settings{UserID: "u1"}, nil)
	repo.EXPECT().Budgets(gomock.Any(), "2024-03").Return(nil, nil)
	insights.EXPECT().RecurringExpenses(gomock.Any(), "u1").Return([]domain.RecurringExpense{
		{MerchantName: "NETFLIXCOM", AverageAmount: 15.49, NextExpectedDate: "03/25/2024", IsActive: true},
	}, nil)

	got, err := svc.AdvancedSafeToSpend(testContext())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.InDelta(t, 15.49, got.ProjectedRecurring, 0.001)
	require.Len(t, got.UpcomingRecurring, 1)
	assert.Equal(t, "NETFLIXCOM", got.UpcomingRecurring[0].MerchantName)
}

func TestService_DetectRecurring(t *testing.T) {
	history := []domain.StoredTransaction{
		stored("01/10/2024", "NETFLIX.COM", -15.49, "Subscriptions"),
		stored("02/10/2024", "NETFLIX.COM", -15.49, "Subscriptions"),
		stored("03/10/2024", "NETFLIX.COM", -15.49, "Subscriptions"),
		stored("03/15/2024", "ACME PAYROLL", 3000, "Income"),
		stored("02/15/2024", "ACME PAYROLL", 3000, "Income"),
	}

	t.Run("upserts each expense", func(t *testing.T) {
		svc, repo, insights := newMockService(t, tracker.Options{})
		repo.EXPECT().AllTransactions(gomock.Any()).Return(history, nil)
		insights.EXPECT().UpsertRecurringExpense(gomock.Any(), "u1", gomock.Any()).
			DoAndReturn(func(ctx context.Context, userID string, e domain.RecurringExpense) error {
				assert.Equal(t, "NETFLIXCOM", e.MerchantName)
				assert.Equal(t, domain.FrequencyMonthly, e.Frequency)
				return nil
			})

		got, err := svc.DetectRecurring(testContext())
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, 3, got[0].Occurrences)
	})

	t.Run("upsert failure propagates", func(t *testing.T) {
		svc, repo, insights := newMockService(t, tracker.Options{})
		repo.EXPECT().AllTransactions(gomock.Any()).Return(history, nil)
		insights.EXPECT().UpsertRecurringExpense(gomock.Any(), "u1", gomock.Any()).Return(errors.New("supabase unavailable"))

		_, err := svc.DetectRecurring(testContext())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DetectRecurring")
	})
}

func TestService_LearnMerchant(t *testing.T) {
	svc, _, insights := newMockService(t, tracker.Options{})
	insights.EXPECT().LearnMerchant(gomock.Any(), "u1", "JOES TACOS 12", "Dining").Return(nil)

	merchant, err := svc.LearnMerchant(testContext(), "Joe's Tacos #12", " Dining ")
	require.NoError(t, err)
	assert.Equal(t, "JOES TACOS 12", merchant)

	_, err = svc.LearnMerchant(testContext(), "***", "Dining")
	assert.ErrorIs(t, err, tracker.ErrInvalidInput)
}

func TestService_SuggestCategory(t *testing.T) {
	svc, _, insights := newMockService(t, tracker.Options{})
	insights.EXPECT().MerchantMapping(gomock.Any(), "u1", "JOES TACOS 12").
		Return(&domain.MerchantMapping{MerchantName: "JOES TACOS 12", Category: "Dining", Confidence: 2}, nil)

	got, err := svc.SuggestCategory(testContext(), "JOE'S TACOS #12 NASHVILLE")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Dining", got.Category)

	none, err := svc.SuggestCategory(testContext(), "---")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestService_MarkAlertRead(t *testing.T) {
	svc, _, insights := newMockService(t, tracker.Options{})
	assert.ErrorIs(t, svc.MarkAlertRead(testContext(), ""), tracker.ErrInvalidInput)

	insights.EXPECT().MarkAlertRead(gomock.Any(), "a1").Return(store.ErrNotFound)
	assert.ErrorIs(t, svc.MarkAlertRead(testContext(), "a1"), store.ErrNotFound)
}

func TestService_SaveGoal_ReadOnlyStore(t *testing.T) {
	svc, _, _ := newMockService(t, tracker.Options{})
	_, err := svc.SaveGoal(testContext(), domain.Goal{Name: "Car", TargetAmount: 5000})
	assert.ErrorIs(t, err, tracker.ErrGoalsReadOnly)
}

func TestService_GoalReport_NotFound(t *testing.T) {
	svc, repo, _ := newMockService(t, tracker.Options{})
	repo.EXPECT().Goal(gomock.Any(), "u1", "missing").Return(nil, nil)

	_, err := svc.GoalReport(testContext(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

type otherJob struct{}

func (otherJob) GetID() string             { return "x" }
func (otherJob) GetType() jobs.JobType     { return "reindex" }
func (otherJob) GetStatus() jobs.JobStatus { return jobs.JobStatusPending }

func TestService_HandleJob_UnsupportedType(t *testing.T) {
	svc, _, _ := newMockService(t, tracker.Options{})
	err := svc.HandleJob(testContext(), otherJob{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reindex")
}
