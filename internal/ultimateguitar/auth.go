package ultimateguitar

import "fmt"

// AnonymousUsername is reported when the page state carries no username.
const AnonymousUsername = "anonymous"

// AuthResult is the session identity the site reported in the page state.
type AuthResult struct {
	Authenticated bool
	UserID        int64
	Username      string
}

func (a AuthResult) String() string {
	if !a.Authenticated {
		return "anonymous (user_id: 0)"
	}
	return fmt.Sprintf("%s (user_id: %d)", a.Username, a.UserID)
}

// Validate reads store.user from the page state.
//
// A missing or zero store.user.id means the site treated the request as
// anonymous; any other value, including a negative one, is authenticated.
// Missing fields fall back to the anonymous defaults; Validate never fails.
func Validate(state State) AuthResult {
	result := AuthResult{Username: AnonymousUsername}

	if id, ok := state.Int("store", "user", "id"); ok {
		result.UserID = id
	}
	if name, ok := state.String("store", "user", "username"); ok {
		result.Username = name
	}

	result.Authenticated = result.UserID != 0
	return result
}
