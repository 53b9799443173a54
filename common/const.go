package common

// JSON-RPC method names served by the daemon.
const (
	MethodVersion = "system.getVersion"

	MethodGroupList    = "group.list"
	MethodGroupGet     = "group.get"
	MethodGroupAdd     = "group.add"
	MethodGroupUpdate  = "group.update"
	MethodGroupRemove  = "group.remove"
	MethodGroupPreview = "group.preview"

	MethodSchedulePending = "schedule.pending"

	MethodPomodoroStart  = "pomodoro.start"
	MethodPomodoroPause  = "pomodoro.pause"
	MethodPomodoroStop   = "pomodoro.stop"
	MethodPomodoroStatus = "pomodoro.status"

	MethodSettingsGet   = "settings.get"
	MethodSettingsSet   = "settings.set"
	MethodSettingsReset = "settings.reset"

	MethodFlashShow  = "flash.show"
	MethodFlashState = "flash.state"
)

// Server push notification names.
const (
	PushReminderFired  = "reminder.fired"
	PushFlashUpdate    = "flash.update"
	PushPomodoroUpdate = "pomodoro.update"
)

// HTTP routes.
const (
	RouteRPC     = "/jsonrpc"
	RouteRPCWS   = "/jsonrpc/ws"
	RouteMetrics = "/metrics"
	RouteHealth  = "/healthz"
)
