package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	// entriesColumns holds the columns for the "entries" table.
	entriesColumns = []*schema.Column{
		{Name: "key", Type: field.TypeString},
		{Name: "value", Type: field.TypeString, Size: 2147483647},
		{Name: "updated_at", Type: field.TypeInt64, Comment: "Unix milliseconds of the last write"},
	}
	// entriesTable holds the persisted client state: one row per entry
	// (recent topics, sessions, active session).
	entriesTable = &schema.Table{
		Name:       "entries",
		Columns:    entriesColumns,
		PrimaryKey: []*schema.Column{entriesColumns[0]},
	}

	// requestEventsColumns holds the columns for the "request_events" table.
	requestEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeInt64, Comment: "Unix milliseconds"},
		{Name: "flow_id", Type: field.TypeString, Default: ""},
		{Name: "endpoint", Type: field.TypeString},
		{Name: "topic", Type: field.TypeString, Default: ""},
		{Name: "status_code", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
	}
	// requestEventsTable journals every call made to the generation service.
	requestEventsTable = &schema.Table{
		Name:       "request_events",
		Columns:    requestEventsColumns,
		PrimaryKey: []*schema.Column{requestEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "requestevent_timestamp", Columns: []*schema.Column{requestEventsColumns[2]}},
			{Name: "requestevent_flow_id", Columns: []*schema.Column{requestEventsColumns[3]}},
		},
	}

	tables = []*schema.Table{entriesTable, requestEventsTable}
)

// migrate creates or updates all tables.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	return m.Create(ctx, tables...)
}
