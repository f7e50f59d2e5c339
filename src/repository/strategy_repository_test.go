package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"strategystudio/src/model"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	})

	gdb, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		sqlDB.Close()
		t.Fatalf("failed to open gorm DB with sqlmock: %v", err)
	}

	return gdb, mock
}

const emptyTreeJSON = `{"type":"group","operator":"AND","rules":[]}`
const configJSON = `{"startMargin":100000,"startDate":"2000-01-01","endDate":"2025-03-20","maxPositions":20,"maxPositionsPerInstrument":1,"orderSortingType":"300-days-top-gainer-first"}`

func TestStrategyRepositoryLoad(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := &GormStrategyRepository{db: mockDB}

	scannerJSON := `{"type":"group","operator":"OR","rules":[{"type":"rule","field":"price","operator":"greater_than","value":"100"}]}`
	modified := time.Date(2023, 12, 20, 9, 15, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{
		"id", "name", "description", "status", "last_modified", "performance",
		"scanner_rules", "buy_rules", "sell_rules", "simulation_config", "results",
	}).AddRow(
		"3", "Moving Average Crossover", "", "draft", modified, "N/A",
		scannerJSON, emptyTreeJSON, emptyTreeJSON, configJSON, nil,
	)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "strategies" ORDER BY last_modified DESC`)).
		WillReturnRows(rows)

	strategies, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error loading strategies: %v", err)
	}

	if len(strategies) != 1 {
		t.Fatalf("expected 1 strategy, got %d", len(strategies))
	}

	s := strategies[0]
	if s.ID != "3" || s.Status != model.StatusDraft {
		t.Fatalf("unexpected strategy: %+v", s)
	}
	if s.ScannerRules.Empty() {
		t.Fatal("scanner tree should have decoded a child")
	}
	if got := s.ScannerRules.Render(); got != "(price > 100)" {
		t.Fatalf("scanner tree did not survive the column scan: %q", got)
	}
	if !s.BuyRules.Empty() || !s.SellRules.Empty() {
		t.Fatal("empty trees should decode as empty groups")
	}
	if s.SimulationConfig.MaxPositions != 20 {
		t.Fatalf("config did not decode: %+v", s.SimulationConfig)
	}
	if s.Results != nil {
		t.Fatal("NULL results column should stay nil")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStrategyRepositorySaveUpsertsAndPrunes(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := &GormStrategyRepository{db: mockDB}

	strategy := model.NewStrategy("High Volume Breakouts", "")
	strategy.ID = "5"
	strategy.LastModified = time.Date(2023, 12, 21, 11, 5, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "strategies"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "strategies" WHERE id NOT IN ($1)`)).
		WithArgs("5").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	if err := repo.Save(context.Background(), []model.Strategy{strategy}); err != nil {
		t.Fatalf("unexpected error saving strategies: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStrategyRepositorySaveEmptyCollectionClearsTable(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := &GormStrategyRepository{db: mockDB}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "strategies" WHERE 1 = 1`)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	if err := repo.Save(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error saving empty collection: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
