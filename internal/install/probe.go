package install

// Session keys and request markers used by the session check.
const (
	SessionTestedKey   = "session_tested"
	SessionWorking     = "Working"
	TestSessionParam   = "test_session"
	installPath        = "/install"
	installProbePath   = installPath + "?" + TestSessionParam
	applicationRootURL = "/"
)

// SessionStore is the per-visitor server-side storage checked by the probe.
type SessionStore interface {
	Get(key string) string
	Set(key, value string)
	// SavePath is where the platform keeps session data.
	SavePath() string
}

// ProbeStep is the action required by the session check.
type ProbeStep int

const (
	// ProbeWriteAndReload stores the marker value and reloads with the
	// test_session parameter.
	ProbeWriteAndReload ProbeStep = iota + 1
	// ProbeFailed means the value written on the previous request is gone.
	ProbeFailed
	// ProbeStripMarker means the value round-tripped; reload without the
	// parameter.
	ProbeStripMarker
	// ProbeConfirmed means sessions work and the form can be shown.
	ProbeConfirmed
)

// Probe decides the next step of the session check from the stored value and
// the presence of the test_session parameter. It writes to sess only on
// ProbeWriteAndReload.
func Probe(sess SessionStore, testSession bool) ProbeStep {
	working := sess.Get(SessionTestedKey) == SessionWorking

	switch {
	case !working && testSession:
		return ProbeFailed
	case !working:
		sess.Set(SessionTestedKey, SessionWorking)
		return ProbeWriteAndReload
	case testSession:
		return ProbeStripMarker
	default:
		return ProbeConfirmed
	}
}
