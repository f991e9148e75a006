package tokentext

// CancelReason says why input mode ended without a confirmation.
type CancelReason uint8

const (
	// CancelByDeletion: the anchor character was deleted (or both markers
	// were otherwise lost).
	CancelByDeletion CancelReason = iota
	// CancelByTapOut: the host reported a tap outside the input region.
	CancelByTapOut
	// CancelByVeto: the ShouldCancelInput hook rejected continuation.
	CancelByVeto
)

func (r CancelReason) String() string {
	switch r {
	case CancelByDeletion:
		return "deletion"
	case CancelByTapOut:
		return "tap-out"
	case CancelByVeto:
		return "veto"
	default:
		return "unknown"
	}
}

// Hooks are the caller-supplied collaboration points. Every field is
// optional; nil hooks fall back to permissive defaults. Hooks are pure
// queries into caller-owned state - mutating the controller from inside a
// hook is unsupported and may corrupt an in-flight range scan.
type Hooks[K comparable] struct {
	// ShouldChangeText has final say over an edit the policy layer already
	// approved. Nil approves everything.
	ShouldChangeText func(r Range, replacement string) bool

	// ContentChanged fires after any mutation settles.
	ContentChanged func()

	TokenAdded    func(t Token[K])
	TokenDeleted  func(t Token[K])
	TokenTapped   func(t Token[K])
	TokenDetapped func(t Token[K])

	// TokenDisplay resolves chip styling for a token. Called on every
	// formatting pass; the caller owns any caching. Nil (or a nil return)
	// falls back to DefaultDisplay.
	TokenDisplay func(t Token[K]) *Display

	// SupplementalRuns contributes extra presentation attributes for the
	// given range. Runs intersecting a token are discarded.
	SupplementalRuns func(text string, r Range) []AttributeRun[K]

	// ShouldCancelInput inspects the just-inserted text plus the accumulated
	// input text and returns true to end input mode, keeping the text as
	// plain content.
	ShouldCancelInput func(inserted, accumulated string) bool

	// InputChanged reports the current input text after each input-mode
	// mutation.
	InputChanged func(text string)

	// InputConfirmRequested fires when a line break arrives during input
	// mode. The break is swallowed; the caller decides whether to confirm.
	InputConfirmRequested func()

	// InputCancelled fires when input mode ends without confirmation.
	InputCancelled func(reason CancelReason)

	// CanAcceptPaste and Paste gate and deliver host paste content. With a
	// nil Paste hook, accepted pastes are inserted as plain text through the
	// edit policy.
	CanAcceptPaste func(contentType string) bool
	Paste          func(content string)

	// RequestFocus asks the host to focus the editing surface.
	RequestFocus func()
}
