package test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"

	authkit "github.com/fieldform/authkit"
)

// Example shows the minimal consumer wiring: build a session, log in, read
// the current user, log out.
func Example() {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			_ = json.NewEncoder(w).Encode(map[string]string{
				"token":        "access-1",
				"refreshToken": "refresh-1",
			})
		case "/auth/profile":
			_ = json.NewEncoder(w).Encode(map[string]string{
				"uid":   "u1",
				"email": "alice@example.com",
			})
		}
	}))
	defer backend.Close()

	session, err := authkit.New().
		WithConfig(authkit.Config{API: authkit.APIConfig{BaseURL: backend.URL}}).
		Build()
	if err != nil {
		fmt.Println("build:", err)
		return
	}
	defer session.Close()

	ctx := context.Background()
	if err := session.Login(ctx, authkit.Credentials{Email: "alice@example.com", Password: "correct-horse"}); err != nil {
		fmt.Println("login:", err)
		return
	}

	user, _ := session.CurrentUser()
	fmt.Println(user.ID, user.Email)

	session.Logout(ctx)
	_, loggedIn := session.CurrentUser()
	fmt.Println("logged in:", loggedIn)

	// Output:
	// u1 alice@example.com
	// logged in: false
}
