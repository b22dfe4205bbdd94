package application

import "expvar"

var (
	metricSnapshotsApplied = expvar.NewInt("inventory_snapshots_applied")
	metricSnapshotsSkipped = expvar.NewInt("inventory_snapshots_skipped")
	metricRenders          = expvar.NewInt("inventory_renders")
	metricCRUDFailures     = expvar.NewInt("inventory_crud_failures")
)
