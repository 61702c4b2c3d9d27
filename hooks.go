package stash

type (
	// HookResult is returned by before-insert and before-update hooks to
	// let the mutation proceed, cancel it, or substitute the row
	HookResult struct {
		row  Row
		kind hookResultKind
	}

	// BeforeInsertHook runs before a candidate row is committed. The
	// candidate already carries its prospective primary key
	BeforeInsertHook func(api TriggerAPI, candidate Row) HookResult

	// AfterInsertHook runs after a row has been committed
	AfterInsertHook func(api TriggerAPI, committed Row)

	// BeforeUpdateHook runs before an update is committed. merged is the
	// current row overlaid with the patch
	BeforeUpdateHook func(api TriggerAPI, current Row, merged Row) HookResult

	// AfterUpdateHook runs after an update has been committed
	AfterUpdateHook func(api TriggerAPI, previous Row, committed Row)

	// BeforeDeleteHook runs before a row is removed and may veto the
	// removal by returning false. A delete has nothing to replace, so the
	// result is a plain bool rather than a HookResult
	BeforeDeleteHook func(api TriggerAPI, current Row) bool

	// AfterDeleteHook runs after a row has been removed
	AfterDeleteHook func(api TriggerAPI, deleted Row)

	hookResultKind uint8

	tableHooks struct {
		beforeInsert BeforeInsertHook
		afterInsert  AfterInsertHook
		beforeUpdate BeforeUpdateHook
		afterUpdate  AfterUpdateHook
		beforeDelete BeforeDeleteHook
		afterDelete  AfterDeleteHook
	}
)

const (
	hookContinue hookResultKind = iota
	hookAbort
	hookReplace
)

// Continue lets the mutation proceed with the row it was given
func Continue() HookResult {
	return HookResult{}
}

// Abort cancels the mutation. The caller sees a false result, not an error
func Abort() HookResult {
	return HookResult{kind: hookAbort}
}

// Replace substitutes row for the one the mutation was about to commit.
// The primary key remains the system-assigned value regardless of what
// row carries
func Replace(row Row) HookResult {
	return HookResult{kind: hookReplace, row: row}
}
