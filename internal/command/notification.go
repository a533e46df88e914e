package command

// NotificationKind tags the variant held by a Notification.
type NotificationKind int

const (
	NotificationCpuUsage NotificationKind = iota
	NotificationDeviceError
	NotificationReconnect
	NotificationParameterEcho
)

// Notification is an immutable tagged-variant message produced by the
// audio callback (or device glue) and consumed by the control context,
// the mirror image of Command. The audio side only ever pushes — it
// never blocks if the ring is full, since a dropped CpuUsage sample is
// harmless and a dropped DeviceError is still followed by the device
// status atomic the control context polls independently.
type Notification struct {
	Kind NotificationKind

	CpuPercent float32 // NotificationCpuUsage

	Err string // NotificationDeviceError: human-readable cause, no allocation-heavy wrapping

	// ParameterEcho confirms a Command's effect landed, carrying back
	// the same addressing the command used so the control context can
	// reconcile its undo/redo {before, after} pairs.
	VoiceIndex int
	Kind2      Kind // which Command kind this echoes
	F32        float32
}

// NewCpuUsage returns a NotificationCpuUsage notification.
func NewCpuUsage(percent float32) Notification {
	return Notification{Kind: NotificationCpuUsage, CpuPercent: percent}
}

// NewDeviceError returns a NotificationDeviceError notification.
func NewDeviceError(msg string) Notification {
	return Notification{Kind: NotificationDeviceError, Err: msg}
}

// NewReconnect returns a NotificationReconnect notification, pushed
// once the device glue has re-established a stream after a prior
// DeviceError.
func NewReconnect() Notification {
	return Notification{Kind: NotificationReconnect}
}

// NewParameterEcho returns a NotificationParameterEcho confirming a
// command of kind applied to voiceIndex took effect with value f32.
func NewParameterEcho(kind Kind, voiceIndex int, f32 float32) Notification {
	return Notification{Kind: NotificationParameterEcho, Kind2: kind, VoiceIndex: voiceIndex, F32: f32}
}
