// Package flow implements the per-session navigation state machine that
// drives the registration journey: which screen is active, the camp ->
// date-range -> form-data selection chain behind it, and the session
// (authentication) context. Transitions are the only way state changes;
// every screen that needs selection data is unreachable until the chain
// has been populated, and every exit back to home clears the whole chain.
package flow

import (
	"context"
	"errors"
	"sync"

	"camp-hub-backend/internal/models"

	"github.com/rs/zerolog/log"
)

// View identifies the active screen
type View string

const (
	ViewHome       View = "home"
	ViewAuth       View = "auth"
	ViewInfo       View = "info"
	ViewDetail     View = "detail"
	ViewForm       View = "form"
	ViewSummary    View = "summary"
	ViewAccount    View = "account"
	ViewCommunity  View = "community"
	ViewComingSoon View = "coming-soon"
)

// AuthIntent tells the auth screen whether to open on login or signup
type AuthIntent string

const (
	IntentLogin  AuthIntent = "login"
	IntentSignup AuthIntent = "signup"
)

// Transition guard failures. Handlers map these to 409; the state is
// left untouched.
var (
	ErrAlreadyAuthenticated = errors.New("already authenticated")
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrNoCampSelected       = errors.New("no camp selected")
	ErrNoDateRange          = errors.New("no date range selected")
	ErrInvalidDateRange     = errors.New("invalid date range")
	ErrEmptyForm            = errors.New("registration form is empty")
	ErrWrongView            = errors.New("transition not available from current view")
)

// EnrollmentConfirmer persists a confirmed registration. Confirmation is
// best effort: the flow never waits for or reacts to the outcome.
type EnrollmentConfirmer interface {
	Confirm(ctx context.Context, user models.User, camp models.Camp, dates models.DateRange, form models.FormData)
}

// Flow holds the navigation state for one session. All methods are safe
// for concurrent use; each transition runs to completion under the lock,
// mirroring single-threaded UI dispatch.
type Flow struct {
	mu sync.Mutex

	view       View
	authIntent AuthIntent

	// selection chain: formData requires dateRange requires camp
	selectedCamp *models.Camp
	dateRange    *models.DateRange
	formData     *models.FormData

	// session context: currentUser is nil exactly when unauthenticated
	authenticated bool
	currentUser   *models.User

	// communityHome sends freshly authenticated users with no pending
	// camp to the community feed instead of home
	communityHome bool

	// communityDisabled routes the community entry to a coming-soon
	// placeholder while the feed is not yet live
	communityDisabled bool

	confirmer EnrollmentConfirmer
}

// Option configures a Flow
type Option func(*Flow)

// WithCommunityHome makes the community feed the post-auth landing view
// when no camp selection is pending.
func WithCommunityHome() Option {
	return func(f *Flow) { f.communityHome = true }
}

// WithoutCommunity replaces the community feed with a coming-soon page
func WithoutCommunity() Option {
	return func(f *Flow) { f.communityDisabled = true }
}

// New creates a flow in the home view
func New(confirmer EnrollmentConfirmer, opts ...Option) *Flow {
	f := &Flow{
		view:       ViewHome,
		authIntent: IntentSignup,
		confirmer:  confirmer,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Snapshot is a read-only copy of the flow state
type Snapshot struct {
	View         View              `json:"view"`
	AuthIntent   AuthIntent        `json:"auth_intent"`
	SelectedCamp *models.Camp      `json:"selected_camp,omitempty"`
	DateRange    *models.DateRange `json:"date_range,omitempty"`
	FormData     *models.FormData  `json:"form_data,omitempty"`
	CurrentUser  *models.User      `json:"current_user,omitempty"`
}

// Snapshot returns the current state
func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Snapshot{
		View:         f.view,
		AuthIntent:   f.authIntent,
		SelectedCamp: f.selectedCamp,
		DateRange:    f.dateRange,
		FormData:     f.formData,
		CurrentUser:  f.currentUser,
	}
}

// View returns the active view
func (f *Flow) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.view
}

// SelectCamp handles a camp card click. Authenticated users go straight
// to the info screen; anonymous users are routed through auth with
// signup intent, keeping the camp pending.
func (f *Flow) SelectCamp(camp models.Camp) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selectedCamp = &camp
	if f.authenticated {
		f.view = ViewInfo
		return
	}
	f.authIntent = IntentSignup
	f.view = ViewAuth
}

// OpenAuth opens the auth screen with login intent. Refused when a
// session is already active.
func (f *Flow) OpenAuth() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.authenticated {
		return ErrAlreadyAuthenticated
	}
	f.authIntent = IntentLogin
	f.view = ViewAuth
	return nil
}

// CloseAuth abandons the auth screen and returns home, clearing the
// whole selection chain so nothing stale leaks into a later journey.
func (f *Flow) CloseAuth() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.view != ViewAuth {
		return ErrWrongView
	}
	f.view = ViewHome
	f.clearSelection()
	return nil
}

// CompleteAuth records a successful login or registration. Auth is never
// left without a definite successor: a pending camp resumes at info,
// otherwise home (or community when configured).
func (f *Flow) CompleteAuth(user models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.view != ViewAuth {
		return ErrWrongView
	}
	f.authenticated = true
	f.currentUser = &user
	switch {
	case f.selectedCamp != nil:
		f.view = ViewInfo
	case f.communityHome:
		f.view = ViewCommunity
	default:
		f.view = ViewHome
	}
	return nil
}

// MoreInfo moves from the info screen to the full detail page
func (f *Flow) MoreInfo() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.view != ViewInfo || f.selectedCamp == nil {
		return ErrWrongView
	}
	f.view = ViewDetail
	return nil
}

// CloseInfo dismisses the info screen back to home, dropping the
// selection chain.
func (f *Flow) CloseInfo() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.view != ViewInfo {
		return ErrWrongView
	}
	f.view = ViewHome
	f.clearSelection()
	return nil
}

// GoHome is the header/footer home shortcut. Any in-progress selection
// is abandoned in full.
func (f *Flow) GoHome() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.view = ViewHome
	f.clearSelection()
}

// PickDates selects the stay interval on the detail page and advances to
// the registration form.
func (f *Flow) PickDates(dates models.DateRange) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.view != ViewDetail || f.selectedCamp == nil {
		return ErrWrongView
	}
	if dates.Start.IsZero() || dates.End.IsZero() || dates.End.Before(dates.Start) {
		return ErrInvalidDateRange
	}
	f.dateRange = &dates
	f.view = ViewForm
	return nil
}

// SubmitForm stores the completed registration form and advances to the
// summary. The form view is unreachable without a date range, so the
// guard here is a defensive short-circuit.
func (f *Flow) SubmitForm(form models.FormData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.view != ViewForm {
		return ErrWrongView
	}
	if f.dateRange == nil {
		return ErrNoDateRange
	}
	if form == (models.FormData{}) {
		return ErrEmptyForm
	}
	f.formData = &form
	f.view = ViewSummary
	return nil
}

// BackToDetail returns from the form to the date picker without losing
// the selection made so far.
func (f *Flow) BackToDetail() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.view != ViewForm {
		return ErrWrongView
	}
	f.view = ViewDetail
	return nil
}

// Confirm finalizes the registration from the summary screen. The
// enrollment is handed to the confirmer without waiting for the outcome;
// the flow then returns home with the entire selection chain cleared,
// regardless of whether persistence eventually succeeds.
func (f *Flow) Confirm(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.view != ViewSummary {
		return ErrWrongView
	}
	if f.currentUser == nil {
		return ErrNotAuthenticated
	}
	if f.selectedCamp == nil || f.dateRange == nil || f.formData == nil {
		return ErrNoCampSelected
	}

	if f.confirmer != nil {
		user, camp, dates, form := *f.currentUser, *f.selectedCamp, *f.dateRange, *f.formData
		go f.confirmer.Confirm(context.WithoutCancel(ctx), user, camp, dates, form)
	} else {
		log.Warn().Msg("No enrollment confirmer configured, registration not persisted")
	}

	f.view = ViewHome
	f.clearSelection()
	return nil
}

// OpenAccount shows the account page; requires an active session
func (f *Flow) OpenAccount() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.currentUser == nil {
		return ErrNotAuthenticated
	}
	f.view = ViewAccount
	return nil
}

// OpenCommunity shows the community feed, or the auth screen with login
// intent when no session is active.
func (f *Flow) OpenCommunity() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.communityDisabled {
		f.view = ViewComingSoon
		return
	}
	if f.authenticated {
		f.view = ViewCommunity
		return
	}
	f.authIntent = IntentLogin
	f.view = ViewAuth
}

// Logout ends the session and returns home
func (f *Flow) Logout() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clearSession()
	f.view = ViewHome
	f.clearSelection()
}

// SwitchAccount ends the session and reopens auth with login intent
func (f *Flow) SwitchAccount() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clearSession()
	f.authIntent = IntentLogin
	f.view = ViewAuth
	f.clearSelection()
}

// clearSelection drops the whole camp -> dates -> form chain. Callers
// hold the lock.
func (f *Flow) clearSelection() {
	f.selectedCamp = nil
	f.dateRange = nil
	f.formData = nil
}

// clearSession resets the session context. Callers hold the lock.
func (f *Flow) clearSession() {
	f.authenticated = false
	f.currentUser = nil
}

