package authkit

import (
	"context"
	"net/http"

	"github.com/fieldform/authkit/httpx"
	"github.com/fieldform/authkit/internal/flows"
)

// Wire shapes for the REST backend. The drafts disagree on several field
// names (uid vs id, profileImage vs profileImageUrl); normalization happens
// here and nowhere else.

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type tokenPairResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

func (r tokenPairResponse) pair() flows.TokenPair {
	return flows.TokenPair{Access: r.Token, Refresh: r.RefreshToken}
}

type profileResponse struct {
	UID             string `json:"uid"`
	ID              string `json:"id"`
	Email           string `json:"email"`
	ProfileImage    string `json:"profileImage"`
	ProfileImageURL string `json:"profileImageUrl"`
}

func (r profileResponse) record() flows.ProfileRecord {
	id := r.UID
	if id == "" {
		id = r.ID
	}
	image := r.ProfileImageURL
	if image == "" {
		image = r.ProfileImage
	}
	return flows.ProfileRecord{ID: id, Email: r.Email, ProfileImageURL: image}
}

type profilePictureResponse struct {
	ProfileImage string `json:"profileImage"`
	SignedURL    string `json:"signedUrl"`
}

func (r profilePictureResponse) record() flows.ProfileRecord {
	image := r.SignedURL
	if image == "" {
		image = r.ProfileImage
	}
	return flows.ProfileRecord{ProfileImageURL: image}
}

func (s *Session) apiLogin(ctx context.Context, email, password string) (flows.TokenPair, error) {
	var out tokenPairResponse
	err := s.client.Do(ctx, httpx.Request{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Body:   credentialsRequest{Email: email, Password: password},
		Out:    &out,
		NoAuth: true,
	})
	if err != nil {
		return flows.TokenPair{}, err
	}
	return out.pair(), nil
}

// apiSignup reports ackOnly=true when the backend acknowledged account
// creation without issuing tokens.
func (s *Session) apiSignup(ctx context.Context, email, password string) (flows.TokenPair, bool, error) {
	var out tokenPairResponse
	err := s.client.Do(ctx, httpx.Request{
		Method: http.MethodPost,
		Path:   "/auth/signup",
		Body:   credentialsRequest{Email: email, Password: password},
		Out:    &out,
		NoAuth: true,
	})
	if err != nil {
		return flows.TokenPair{}, false, err
	}
	pair := out.pair()
	return pair, !pair.Valid(), nil
}

// apiRefresh must never recurse into another refresh, hence NoRetry. The
// expired bearer is not attached; the refresh token in the body is the
// credential.
func (s *Session) apiRefresh(ctx context.Context, refreshToken string) (flows.TokenPair, error) {
	var out tokenPairResponse
	err := s.client.Do(ctx, httpx.Request{
		Method:  http.MethodPost,
		Path:    "/auth/refresh-token",
		Body:    refreshRequest{RefreshToken: refreshToken},
		Out:     &out,
		NoAuth:  true,
		NoRetry: true,
	})
	if err != nil {
		return flows.TokenPair{}, err
	}
	return out.pair(), nil
}

func (s *Session) apiProfile(ctx context.Context) (flows.ProfileRecord, error) {
	var out profileResponse
	err := s.client.Do(ctx, httpx.Request{
		Method: http.MethodGet,
		Path:   "/auth/profile",
		Out:    &out,
	})
	if err != nil {
		return flows.ProfileRecord{}, err
	}
	return out.record(), nil
}

func (s *Session) apiUploadProfilePicture(ctx context.Context, update flows.ProfileUpdate) (flows.ProfileRecord, error) {
	payload := &httpx.Multipart{Fields: update.Fields}
	if update.Content != nil {
		name := update.FileName
		if name == "" {
			name = "profile"
		}
		payload.Files = []httpx.FilePart{{Field: "image", FileName: name, Content: update.Content}}
	}

	var out profilePictureResponse
	err := s.client.Do(ctx, httpx.Request{
		Method:    http.MethodPost,
		Path:      "/users/profile-picture",
		Multipart: payload,
		Out:       &out,
	})
	if err != nil {
		return flows.ProfileRecord{}, err
	}
	return out.record(), nil
}

func (s *Session) apiSubmitForm(ctx context.Context, record flows.SubmitRecord) error {
	payload := &httpx.Multipart{
		Fields: map[string]string{
			"name":        record.Name,
			"email":       record.Email,
			"description": record.Description,
		},
	}
	if record.Image != nil {
		name := record.ImageName
		if name == "" {
			name = "image"
		}
		payload.Files = []httpx.FilePart{{Field: "image", FileName: name, Content: record.Image}}
	}

	return s.client.Do(ctx, httpx.Request{
		Method:    http.MethodPost,
		Path:      "/api/submitForm",
		Multipart: payload,
	})
}
