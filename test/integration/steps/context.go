// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/budget-tracker/engine/config"
	"github.com/budget-tracker/engine/internal/domain/entity"
	"github.com/budget-tracker/engine/internal/infra/dependency"
	"github.com/budget-tracker/engine/internal/integration/persistence"
	"github.com/budget-tracker/engine/internal/integration/persistence/model"
)

// TestContext holds the test state for each scenario.
type TestContext struct {
	// HTTP
	server       *httptest.Server
	response     *http.Response
	responseBody []byte

	// Storage
	db       *gorm.DB
	injector *dependency.Injector

	// Fixtures: every scenario seeds one chain
	ownerID   uuid.UUID
	accountID uuid.UUID
	budgets   map[string]*entity.Budget

	// Config
	cfg *config.Config
}

// contextKey is used to store TestContext in context.Context.
type contextKey struct{}

// GetTestContext retrieves the TestContext from context.
func GetTestContext(ctx context.Context) *TestContext {
	if tc, ok := ctx.Value(contextKey{}).(*TestContext); ok {
		return tc
	}
	return nil
}

// SetTestContext stores the TestContext in context.
func SetTestContext(ctx context.Context, tc *TestContext) context.Context {
	return context.WithValue(ctx, contextKey{}, tc)
}

// InitializeTestSuite sets up resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			return ctx, fmt.Errorf("failed to open test database: %w", err)
		}
		if err := db.AutoMigrate(
			&model.BudgetModel{},
			&model.BudgetHistoryModel{},
			&model.CategoryBudgetModel{},
			&model.TransactionModel{},
			&model.BudgetAllocationModel{},
		); err != nil {
			return ctx, fmt.Errorf("failed to migrate test database: %w", err)
		}

		tc := &TestContext{
			db:        db,
			cfg:       config.Load(),
			ownerID:   uuid.New(),
			accountID: uuid.New(),
			budgets:   make(map[string]*entity.Budget),
		}
		tc.injector = dependency.NewInjector(tc.cfg, db, nil)
		tc.server = httptest.NewServer(tc.injector.Router.Setup("test"))

		return SetTestContext(ctx, tc), nil
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		tc := GetTestContext(ctx)
		if tc != nil && tc.server != nil {
			tc.server.Close()
		}
		return ctx, nil
	})

	registerFixtureSteps(ctx)
	registerAPISteps(ctx)
	registerResponseSteps(ctx)
	registerLedgerSteps(ctx)
}

// registerFixtureSteps registers database seeding steps.
func registerFixtureSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^a budget "([^"]*)" of "([^"]*)" from "([^"]*)" to "([^"]*)"$`, aBudgetOfFromTo)
	ctx.Step(`^an expense of "([^"]*)" on "([^"]*)" against "([^"]*)"$`, anExpenseOfOnAgainst)
	ctx.Step(`^a split expense on "([^"]*)" allocating "([^"]*)" to "([^"]*)"$`, aSplitExpenseOnAllocatingTo)
}

// registerAPISteps registers HTTP request steps.
func registerAPISteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^the API server is running$`, theAPIServerIsRunning)
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)"$`, iSendARequestTo)
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, iSendARequestToWithBody)
}

// registerResponseSteps registers response validation steps.
func registerResponseSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^the response status should be (\d+)$`, theResponseStatusShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, theResponseFieldShouldBe)
	ctx.Step(`^the response field "([^"]*)" should exist$`, theResponseFieldShouldExist)
}

// registerLedgerSteps registers rollover state validation steps.
func registerLedgerSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^the opening rollover of "([^"]*)" should be "([^"]*)"$`, theOpeningRolloverOfShouldBe)
	ctx.Step(`^the ledger of "([^"]*)" should record a "([^"]*)" of "([^"]*)"$`, theLedgerOfShouldRecord)
}

// Fixture step implementations

func aBudgetOfFromTo(ctx context.Context, name, amount, start, end string) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}

	startDate, err := time.Parse("2006-01-02", start)
	if err != nil {
		return ctx, fmt.Errorf("invalid start date: %w", err)
	}
	endDate, err := time.Parse("2006-01-02", end)
	if err != nil {
		return ctx, fmt.Errorf("invalid end date: %w", err)
	}
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return ctx, fmt.Errorf("invalid amount: %w", err)
	}

	b := entity.NewBudget(tc.ownerID, tc.accountID, nil, name, value, startDate.Day(), startDate, endDate, true)
	repo := persistence.NewBudgetRepository(tc.db)
	if err := repo.Create(ctx, b); err != nil {
		return ctx, fmt.Errorf("failed to seed budget: %w", err)
	}
	tc.budgets[name] = b
	return SetTestContext(ctx, tc), nil
}

func anExpenseOfOnAgainst(ctx context.Context, amount, day, budgetName string) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}
	b, ok := tc.budgets[budgetName]
	if !ok {
		return ctx, fmt.Errorf("unknown budget %q", budgetName)
	}

	txn, err := tc.newExpense(amount, day)
	if err != nil {
		return ctx, err
	}
	txn.BudgetID = &b.ID

	if err := tc.db.Create(model.TransactionFromEntity(txn)).Error; err != nil {
		return ctx, fmt.Errorf("failed to seed expense: %w", err)
	}
	return ctx, nil
}

func aSplitExpenseOnAllocatingTo(ctx context.Context, day, amount, budgetName string) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}
	b, ok := tc.budgets[budgetName]
	if !ok {
		return ctx, fmt.Errorf("unknown budget %q", budgetName)
	}

	share, err := decimal.NewFromString(amount)
	if err != nil {
		return ctx, fmt.Errorf("invalid allocation amount: %w", err)
	}

	// The other half of the split belongs to an unrelated budget.
	txn, err := tc.newExpense(share.Add(share).String(), day)
	if err != nil {
		return ctx, err
	}
	txn.IsSplit = true
	txn.Allocations = []entity.BudgetAllocation{
		{BudgetID: b.ID, Amount: share},
		{BudgetID: uuid.New(), Amount: share},
	}

	if err := tc.db.Create(model.TransactionFromEntity(txn)).Error; err != nil {
		return ctx, fmt.Errorf("failed to seed split expense: %w", err)
	}
	return ctx, nil
}

func (tc *TestContext) newExpense(amount, day string) (*entity.Transaction, error) {
	date, err := time.Parse("2006-01-02", day)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction date: %w", err)
	}
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction amount: %w", err)
	}
	now := time.Now().UTC()
	return &entity.Transaction{
		ID:          uuid.New(),
		OwnerID:     tc.ownerID,
		AccountID:   tc.accountID,
		Date:        date,
		Description: "Seeded expense",
		Amount:      value,
		Type:        entity.TransactionTypeExpense,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// API step implementations

func theAPIServerIsRunning(ctx context.Context) error {
	tc := GetTestContext(ctx)
	if tc == nil || tc.server == nil {
		return fmt.Errorf("test server is not running")
	}
	return nil
}

func iSendARequestTo(ctx context.Context, method, endpoint string) (context.Context, error) {
	return sendRequest(ctx, method, endpoint, nil)
}

func iSendARequestToWithBody(ctx context.Context, method, endpoint string, body *godog.DocString) (context.Context, error) {
	return sendRequest(ctx, method, endpoint, bytes.NewBufferString(body.Content))
}

func sendRequest(ctx context.Context, method, endpoint string, body io.Reader) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}

	// Budget names in braces resolve to the seeded budget's ID.
	for name, b := range tc.budgets {
		endpoint = strings.ReplaceAll(endpoint, "{"+name+"}", b.ID.String())
	}

	req, err := http.NewRequest(method, tc.server.URL+endpoint, body)
	if err != nil {
		return ctx, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return ctx, fmt.Errorf("failed to send request: %w", err)
	}

	tc.response = resp
	tc.responseBody, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return ctx, fmt.Errorf("failed to read response body: %w", err)
	}

	return SetTestContext(ctx, tc), nil
}

// Response step implementations

func theResponseStatusShouldBe(ctx context.Context, expectedStatus int) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	if tc.response == nil {
		return fmt.Errorf("no response received")
	}
	if tc.response.StatusCode != expectedStatus {
		return fmt.Errorf("expected status %d, got %d. Body: %s", expectedStatus, tc.response.StatusCode, string(tc.responseBody))
	}
	return nil
}

func theResponseFieldShouldBe(ctx context.Context, field, expected string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}

	var data map[string]interface{}
	if err := json.Unmarshal(tc.responseBody, &data); err != nil {
		return fmt.Errorf("failed to parse response JSON: %w", err)
	}

	value, ok := data[field]
	if !ok {
		return fmt.Errorf("field '%s' not found in response", field)
	}

	actual := fmt.Sprintf("%v", value)
	if actual != expected {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", field, expected, actual)
	}
	return nil
}

func theResponseFieldShouldExist(ctx context.Context, field string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}

	var data map[string]interface{}
	if err := json.Unmarshal(tc.responseBody, &data); err != nil {
		return fmt.Errorf("failed to parse response JSON: %w", err)
	}

	if _, ok := data[field]; !ok {
		return fmt.Errorf("field '%s' not found in response", field)
	}
	return nil
}

// Ledger step implementations

func theOpeningRolloverOfShouldBe(ctx context.Context, budgetName, expected string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	b, ok := tc.budgets[budgetName]
	if !ok {
		return fmt.Errorf("unknown budget %q", budgetName)
	}

	repo := persistence.NewBudgetRepository(tc.db)
	current, err := repo.FindByID(ctx, b.ID)
	if err != nil {
		return fmt.Errorf("failed to reload budget: %w", err)
	}

	want, err := decimal.NewFromString(expected)
	if err != nil {
		return fmt.Errorf("invalid expected rollover: %w", err)
	}
	if !current.RolloverAmount.Equal(want) {
		return fmt.Errorf("budget %q: expected opening rollover %s, got %s", budgetName, want, current.RolloverAmount)
	}
	return nil
}

func theLedgerOfShouldRecord(ctx context.Context, budgetName, rolloverType, expected string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	b, ok := tc.budgets[budgetName]
	if !ok {
		return fmt.Errorf("unknown budget %q", budgetName)
	}

	repo := persistence.NewBudgetHistoryRepository(tc.db)
	entries, err := repo.FindByBudget(ctx, b.ID)
	if err != nil {
		return fmt.Errorf("failed to read ledger: %w", err)
	}
	if len(entries) != 1 {
		return fmt.Errorf("budget %q: expected one ledger entry, got %d", budgetName, len(entries))
	}

	want, err := decimal.NewFromString(expected)
	if err != nil {
		return fmt.Errorf("invalid expected amount: %w", err)
	}
	entry := entries[0]
	if string(entry.Type) != rolloverType {
		return fmt.Errorf("budget %q: expected %s entry, got %s", budgetName, rolloverType, entry.Type)
	}
	if !entry.Amount.Equal(want) {
		return fmt.Errorf("budget %q: expected ledger amount %s, got %s", budgetName, want, entry.Amount)
	}
	return nil
}
