package models

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	go_sqlite "github.com/glebarez/go-sqlite"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var DB *gorm.DB

type CondofinContext string

const (
	DBContextURL CondofinContext = "condofin-backend-url"
)

// Connect opens the SQLite database and configures the connection pool.
func Connect(dsn string) error {
	config := &gorm.Config{
		Logger: &logger{
			Logger: log.Logger,
		},
	}

	// Migration runs with foreign keys disabled since sqlite does not support
	// ALTER COLUMN: tables are copied to a temporary table, dropped and recreated
	db, err := gorm.Open(sqlite.Open(dsn), config)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	err = migrate(db)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database object: %w", err)
	}
	sqlDB.Close()

	// Reconnect with foreign keys enabled
	dsn = fmt.Sprintf("%s?_pragma=foreign_keys(1)", dsn)
	db, err = gorm.Open(sqlite.Open(dsn), config)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err = db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database object: %w", err)
	}

	sqlDB.SetConnMaxLifetime(time.Hour)

	// A single connection prevents SQLITE_BUSY errors and serializes
	// all read-modify-write cycles on account balances.
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	callbacks := []struct {
		processor interface {
			Register(string, func(*gorm.DB)) error
		}
		name string
		fn   func(*gorm.DB)
	}{
		{db.Callback().Query().After("*"), "condofin:after_query", queryCallback},
		{db.Callback().Query().After("*"), "condofin:after_query_general", generalCallback},
		{db.Callback().Create().After("*"), "condofin:after_create", createUpdateCallback},
		{db.Callback().Create().After("*"), "condofin:after_create_general", generalCallback},
		{db.Callback().Update().After("*"), "condofin:after_update", createUpdateCallback},
		{db.Callback().Update().After("*"), "condofin:after_update_general", generalCallback},
		{db.Callback().Delete().After("*"), "condofin:after_delete", deleteCallback},
		{db.Callback().Delete().After("*"), "condofin:after_delete_general", generalCallback},
		{db.Callback().Raw().After("*"), "condofin:after_raw", createUpdateCallback},
		{db.Callback().Raw().After("*"), "condofin:after_raw_general", generalCallback},
	}

	for _, c := range callbacks {
		if err := c.processor.Register(c.name, c.fn); err != nil {
			return err
		}
	}

	DB = db

	return nil
}

// queryCallback replaces the generic "no record" error with a more user
// friendly one
func queryCallback(db *gorm.DB) {
	if errors.Is(db.Error, gorm.ErrRecordNotFound) {
		// The table name names the resource, "_" becomes "[space]"
		name := strings.ReplaceAll(db.Statement.Table, "_", " ")

		// Singular for "-ies" and "-s" plurals
		name = regexp.MustCompile("ies$").ReplaceAllString(name, "y")
		name = strings.TrimSuffix(name, "s")

		db.Error = fmt.Errorf("%w %s matching your query", ErrResourceNotFound, name)
	}
}

// constraintErrors maps substrings of database constraint violations to
// the errors returned to users.
var constraintErrors = []struct {
	match string
	err   error
}{
	{"UNIQUE constraint failed: condominiums.name", ErrCondominiumNameNotUnique},
	{"UNIQUE constraint failed: units.condominium_id, units.number", ErrUnitNumberNotUnique},
	{"UNIQUE constraint failed: accounts.condominium_id, accounts.name", ErrAccountNameNotUnique},
	{"UNIQUE constraint failed: checks.checkbook_id, checks.number", ErrCheckNumberNotUnique},
	{"UNIQUE constraint failed: reconciliations.account_id, reconciliations.cutoff_date", ErrDuplicateDraft},
	{"UNIQUE constraint failed: manual_shares.source_type, manual_shares.source_id, manual_shares.unit_id", ErrManualShareNotUnique},
	{"UNIQUE constraint failed: reconciliation_items.reconciliation_id, reconciliation_items.payment_id", ErrSelectedTwice},
	{"UNIQUE constraint failed: reconciliation_items.reconciliation_id, reconciliation_items.egress_id", ErrSelectedTwice},
	{"CHECK constraint failed: checkbook_range_valid", ErrCheckbookRangeInvalid},
	{"CHECK constraint failed: item_single_transaction", ErrItemSingleTransaction},
	{"CHECK constraint failed: installment_count_positive", ErrInstallmentCountInvalid},
	{"CHECK constraint failed: aliquot_not_negative", ErrAliquotNegative},
	{checkbookOverlapMessage, ErrCheckbookRangeOverlap},
	{"FOREIGN KEY constraint failed", ErrReferenceNotFound},
}

// createUpdateCallback inspects errors returned by the database for create
// and update calls and replaces them with user friendly ones
func createUpdateCallback(db *gorm.DB) {
	if db.Error == nil {
		return
	}

	for _, c := range constraintErrors {
		if strings.Contains(db.Error.Error(), c.match) {
			db.Error = c.err
			return
		}
	}
}

// deleteCallback reports resources that are still referenced
func deleteCallback(db *gorm.DB) {
	if db.Error == nil {
		return
	}

	if strings.Contains(db.Error.Error(), "FOREIGN KEY constraint failed") {
		db.Error = ErrResourceInUse
	}
}

// generalCallback handles unspecified errors.
//
// For these errors, we cannot provide the user with a helpful message.
// Instead, the error is logged and we return a general message to users.
func generalCallback(db *gorm.DB) {
	if db.Error == nil {
		return
	}

	db.Error = generalError(db.Error)
}

// generalError replaces errors of the database itself with ErrGeneral
// and logs them. All other errors are returned unchanged.
func generalError(err error) error {
	// "sql: database is closed" is hard-coded in the database/sql package
	if err.Error() == "sql: database is closed" || reflect.TypeOf(err) == reflect.TypeOf(&go_sqlite.Error{}) {
		log.Error().Msgf("%T: %v", err, err.Error())
		return ErrGeneral
	}

	return err
}

// inTransaction runs fc in a database transaction.
//
// Errors from beginning or committing the transaction do not pass through
// the callbacks, so they are mapped here.
func inTransaction(db *gorm.DB, fc func(tx *gorm.DB) error) error {
	err := db.Transaction(fc)
	if err != nil {
		return generalError(err)
	}

	return nil
}

const checkbookOverlapMessage = "checkbook range overlaps an existing checkbook"

// migrate migrates all models to the schema defined in the code and
// creates the constraints gorm cannot express.
func migrate(db *gorm.DB) (err error) {
	err = db.AutoMigrate(
		Condominium{},
		Unit{},
		Account{},
		Checkbook{},
		Check{},
		Transaction{},
		Reconciliation{},
		ReconciliationItem{},
		Budget{},
		ExtraordinaryPlan{},
		PaymentAgreement{},
		ManualShare{},
		Charge{},
		Replenishment{},
		Voucher{},
	)
	if err != nil {
		return fmt.Errorf("error during DB migration: %w", err)
	}

	statements := []string{
		// At most one draft per account and cutoff date
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_reconciliations_single_draft
			ON reconciliations (account_id, cutoff_date)
			WHERE status = 'draft'`,

		// Check number ranges of one account must not overlap
		fmt.Sprintf(`CREATE TRIGGER IF NOT EXISTS checkbooks_range_no_overlap
			BEFORE INSERT ON checkbooks
			FOR EACH ROW
			WHEN EXISTS (
				SELECT 1 FROM checkbooks
				WHERE account_id = NEW.account_id
				AND start_number <= NEW.end_number
				AND NEW.start_number <= end_number
			)
			BEGIN
				SELECT RAISE(ABORT, '%s');
			END`, checkbookOverlapMessage),
		fmt.Sprintf(`CREATE TRIGGER IF NOT EXISTS checkbooks_range_no_overlap_update
			BEFORE UPDATE OF start_number, end_number, account_id ON checkbooks
			FOR EACH ROW
			WHEN EXISTS (
				SELECT 1 FROM checkbooks
				WHERE account_id = NEW.account_id
				AND id != NEW.id
				AND start_number <= NEW.end_number
				AND NEW.start_number <= end_number
			)
			BEGIN
				SELECT RAISE(ABORT, '%s');
			END`, checkbookOverlapMessage),
	}

	for _, s := range statements {
		if err := db.Exec(s).Error; err != nil {
			return fmt.Errorf("error during DB migration: %w", err)
		}
	}

	return nil
}
