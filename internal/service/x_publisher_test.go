package service

import (
	"context"
	"testing"

	"github.com/nichelab/brandbrain/internal/models"
	"github.com/nichelab/brandbrain/internal/transfer"
)

func validCreds() *transfer.XCredentials {
	return &transfer.XCredentials{
		ConsumerKey:    "ck",
		ConsumerSecret: "cs",
		BearerToken:    "AAAAAAAAAAAAAAAAAAAAAA", // 22 chars
	}
}

func TestVerifyCredentials_MissingFields(t *testing.T) {
	p := NewSimulatedPublisher(0)

	cases := []struct {
		name  string
		creds *transfer.XCredentials
	}{
		{"nil bundle", nil},
		{"no consumer key", &transfer.XCredentials{ConsumerSecret: "cs", BearerToken: "AAAAAAAAAAAAAAAAAAAAAA"}},
		{"no consumer secret", &transfer.XCredentials{ConsumerKey: "ck", BearerToken: "AAAAAAAAAAAAAAAAAAAAAA"}},
		{"no bearer token", &transfer.XCredentials{ConsumerKey: "ck", ConsumerSecret: "cs"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := p.VerifyCredentials(context.Background(), tc.creds)
			if err != nil {
				t.Fatalf("VerifyCredentials: %v", err)
			}
			if result.Verified {
				t.Error("Verified = true, want false")
			}
			if result.Reason == "" {
				t.Error("Reason is empty")
			}
		})
	}
}

func TestVerifyCredentials_ShortBearerToken(t *testing.T) {
	p := NewSimulatedPublisher(0)

	creds := validCreds()
	creds.BearerToken = "tooshort10" // 10 chars, below the minimum of 20

	result, err := p.VerifyCredentials(context.Background(), creds)
	if err != nil {
		t.Fatalf("VerifyCredentials: %v", err)
	}
	if result.Verified {
		t.Error("Verified = true, want false")
	}
	if result.Reason != "invalid bearer token format" {
		t.Errorf("Reason = %q", result.Reason)
	}
}

func TestVerifyCredentials_Success(t *testing.T) {
	p := NewSimulatedPublisher(0)

	result, err := p.VerifyCredentials(context.Background(), validCreds())
	if err != nil {
		t.Fatalf("VerifyCredentials: %v", err)
	}
	if !result.Verified {
		t.Fatalf("Verified = false, reason %q", result.Reason)
	}
	if result.Username == "" {
		t.Error("Username is empty")
	}
}

func TestPublish_Success(t *testing.T) {
	p := NewSimulatedPublisher(0)

	post := &models.Post{Caption: "hello", Hashtags: []string{"eco", "fashion"}}
	result, err := p.Publish(context.Background(), validCreds(), post)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if !result.Published {
		t.Errorf("Published = false, reason %q", result.Reason)
	}
}

func TestComposePostText(t *testing.T) {
	cases := []struct {
		name string
		post models.Post
		want string
	}{
		{
			"caption and hashtags",
			models.Post{Caption: "Vintage finds", Hashtags: []string{"thrift", "eco"}},
			"Vintage finds\n\n#thrift #eco",
		},
		{
			"hashtags already prefixed",
			models.Post{Caption: "hi", Hashtags: []string{"#a", "b"}},
			"hi\n\n#a #b",
		},
		{
			"no hashtags",
			models.Post{Caption: "just text"},
			"just text",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := composePostText(&tc.post); got != tc.want {
				t.Errorf("composePostText() = %q, want %q", got, tc.want)
			}
		})
	}
}
