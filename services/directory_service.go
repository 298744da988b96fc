package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kendall-kelly/repair-desk-api/utils"
	"github.com/lib/pq"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DirectoryListLimit caps directory listings
const DirectoryListLimit = 100

// directoryTables maps the public directory key to its table
var directoryTables = map[string]string{
	"contractors":  "contractors",
	"products":     "products",
	"services":     "services",
	"users":        "users",
	"devices":      "device_types",
	"brands":       "device_brands",
	"models":       "device_models",
	"accessories":  "accessories",
	"malfunctions": "malfunctions",
	"units":        "units",
	"money":        "money_items",
	"advertising":  "advertising_sources",
}

// serviceColumns are maintained by the service; request bodies never write them
var serviceColumns = []string{"id", "created_at", "updated_at"}

// hiddenColumns are never returned by Get or List
var hiddenColumns = map[string][]string{
	"users": {"password_hash"},
}

// searchColumns overrides the column searched for a table; default is name
var searchColumns = map[string]string{
	"users": "full_name",
}

// DirectoryTable resolves a directory key to its table name
func DirectoryTable(key string) (string, error) {
	table, ok := directoryTables[key]
	if !ok {
		return "", utils.BadRequest("Invalid directory type")
	}
	return table, nil
}

// DirectoryService provides generic CRUD over the reference tables
type DirectoryService struct {
	db *gorm.DB
}

func NewDirectoryService(db *gorm.DB) *DirectoryService {
	return &DirectoryService{db: db}
}

// Get returns the row with the given id, or None when it does not exist
func (s *DirectoryService) Get(ctx context.Context, key, id string) (mo.Option[Row], error) {
	table, err := DirectoryTable(key)
	if err != nil {
		return mo.None[Row](), err
	}
	rowID, err := parseID(id)
	if err != nil {
		return mo.None[Row](), err
	}

	rows, err := s.db.WithContext(ctx).Table(table).Where("id = ?", rowID).Limit(1).Rows()
	if err != nil {
		return mo.None[Row](), err
	}
	result, err := ScanRows(rows)
	if err != nil {
		return mo.None[Row](), err
	}
	if len(result) == 0 {
		return mo.None[Row](), nil
	}
	return mo.Some(result[0].Omit(hiddenColumns[table]...)), nil
}

// List returns up to DirectoryListLimit rows, newest id first, optionally
// filtered by a case-insensitive substring of the name column
func (s *DirectoryService) List(ctx context.Context, key, search string) ([]Row, error) {
	table, err := DirectoryTable(key)
	if err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).Table(table)
	if search != "" {
		column := lo.ValueOr(searchColumns, table, "name")
		query = query.Where(fmt.Sprintf("%s %s ?", pq.QuoteIdentifier(column), likeOperator(s.db)), "%"+search+"%")
	}

	rows, err := query.Order("id DESC").Limit(DirectoryListLimit).Rows()
	if err != nil {
		return nil, err
	}
	result, err := ScanRows(rows)
	if err != nil {
		return nil, err
	}
	return lo.Map(result, func(r Row, _ int) Row { return r.Omit(hiddenColumns[table]...) }), nil
}

// Create inserts a row from fields and returns its generated id
func (s *DirectoryService) Create(ctx context.Context, key string, fields []Field) (int64, error) {
	table, err := DirectoryTable(key)
	if err != nil {
		return 0, err
	}
	fields, err = prepareFields(table, dropFields(fields, serviceColumns...))
	if err != nil {
		return 0, err
	}
	if len(fields) == 0 {
		return 0, utils.BadRequest("no fields to insert")
	}
	if _, err := s.checkColumns(ctx, table, fields); err != nil {
		return 0, err
	}

	columns := lo.Map(fields, func(f Field, _ int) string { return pq.QuoteIdentifier(f.Column) })
	placeholders := lo.Map(fields, func(Field, int) string { return "?" })
	values := lo.Map(fields, func(f Field, _ int) any { return f.Value })

	statement := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		pq.QuoteIdentifier(table), strings.Join(columns, ", "), strings.Join(placeholders, ", "))

	var id int64
	if err := s.db.WithContext(ctx).Raw(statement, values...).Row().Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// Update writes fields to the row identified by the "id" field, falling
// back to queryID. The id itself is never written.
func (s *DirectoryService) Update(ctx context.Context, key, queryID string, fields []Field) error {
	table, err := DirectoryTable(key)
	if err != nil {
		return err
	}

	idField, fields, found := popField(fields, "id")
	rawID := queryID
	if found && idField.Value != nil {
		rawID = fmt.Sprint(idField.Value)
	}
	if rawID == "" {
		return utils.BadRequest("ID is required")
	}
	rowID, err := parseID(rawID)
	if err != nil {
		return err
	}
	fields, err = prepareFields(table, dropFields(fields, serviceColumns...))
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		return utils.BadRequest("no fields to update")
	}

	known, err := s.checkColumns(ctx, table, fields)
	if err != nil {
		return err
	}

	assignments := lo.Map(fields, func(f Field, _ int) string { return pq.QuoteIdentifier(f.Column) + " = ?" })
	values := lo.Map(fields, func(f Field, _ int) any { return f.Value })
	if known["updated_at"] {
		assignments = append(assignments, "updated_at = ?")
		values = append(values, time.Now())
	}
	values = append(values, rowID)

	statement := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", pq.QuoteIdentifier(table), strings.Join(assignments, ", "))
	return s.db.WithContext(ctx).Exec(statement, values...).Error
}

// Delete removes the row with the given id
func (s *DirectoryService) Delete(ctx context.Context, key, id string) error {
	table, err := DirectoryTable(key)
	if err != nil {
		return err
	}
	if id == "" {
		return utils.BadRequest("ID is required")
	}
	rowID, err := parseID(id)
	if err != nil {
		return err
	}

	statement := fmt.Sprintf("DELETE FROM %s WHERE id = ?", pq.QuoteIdentifier(table))
	return s.db.WithContext(ctx).Exec(statement, rowID).Error
}

// checkColumns rejects fields that are not columns of table and returns the
// table's column set
func (s *DirectoryService) checkColumns(ctx context.Context, table string, fields []Field) (map[string]bool, error) {
	columnTypes, err := s.db.WithContext(ctx).Migrator().ColumnTypes(table)
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}
	known := make(map[string]bool, len(columnTypes))
	for _, ct := range columnTypes {
		known[ct.Name()] = true
	}

	for _, f := range fields {
		if !known[f.Column] {
			return nil, utils.BadRequest("unknown column %q for %s", f.Column, table)
		}
	}
	return known, nil
}

// prepareFields turns a users "password" into a bcrypt "password_hash". An
// empty password leaves the stored hash untouched.
func prepareFields(table string, fields []Field) ([]Field, error) {
	if table != "users" {
		return fields, nil
	}

	password, fields, found := popField(fields, "password")
	fields = dropFields(fields, "password_hash")
	if !found || password.Value == nil || fmt.Sprint(password.Value) == "" {
		return fields, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(fmt.Sprint(password.Value)), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return append(fields, Field{Column: "password_hash", Value: string(hash)}), nil
}

func likeOperator(db *gorm.DB) string {
	if db.Dialector.Name() == "postgres" {
		return "ILIKE"
	}
	return "LIKE"
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, utils.BadRequest("invalid id %q", raw)
	}
	return id, nil
}
