package stash

import "github.com/rs/zerolog"

// Log event names
const (
	EventTableInsert  = "table_insert"
	EventTableUpdate  = "table_update"
	EventTableDelete  = "table_delete"
	EventTableClear   = "table_clear"
	EventTriggerAbort = "trigger_abort"
	EventQueueInsert  = "queue_insert"
	EventQueueGet     = "queue_get"
	EventSingleSet    = "single_set"
)

func logMutation(l zerolog.Logger, event, table string, pk int64) {
	l.Debug().
		Str("event", event).
		Str("table", table).
		Int64("pk", pk).
		Msg("table mutated")
}

func logTrigger(l zerolog.Logger, table string, kind NotifyKind) {
	l.Debug().
		Str("event", EventTriggerAbort).
		Str("table", table).
		Str("kind", kind.String()).
		Msg("mutation declined by trigger")
}

func logQueue(l zerolog.Logger, event, queue string, size int) {
	l.Debug().
		Str("event", event).
		Str("queue", queue).
		Int("size", size).
		Msg("queue changed")
}

func logSingle(l zerolog.Logger, single string) {
	l.Debug().
		Str("event", EventSingleSet).
		Str("single", single).
		Msg("single set")
}
