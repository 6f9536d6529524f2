package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/kdudkov/goutils/request"
	"golang.org/x/net/publicsuffix"

	"github.com/blaulicht/leitstelle/internal/model"
)

const httpTimeout = time.Second * 3

// RemoteAPI talks to the dispatch server. The session cookie from login
// is kept in the client's jar.
type RemoteAPI struct {
	logger *slog.Logger
	base   string
	client *http.Client
}

func NewRemoteAPI(base string) (*RemoteAPI, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}

	return &RemoteAPI{
		logger: slog.Default().With("logger", "remote_api"),
		base:   strings.TrimSuffix(base, "/"),
		client: &http.Client{
			Jar:       jar,
			Transport: &http.Transport{ResponseHeaderTimeout: httpTimeout},
		},
	}, nil
}

func (r *RemoteAPI) request(path string) *request.Request {
	return request.New(r.client, r.logger).URL(r.base + path)
}

func (r *RemoteAPI) Login(ctx context.Context, username, password string) (string, error) {
	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		return "", err
	}

	res := struct {
		Success bool   `json:"success"`
		Role    string `json:"role"`
	}{}

	err = r.request("/login").
		Post().
		Headers(map[string]string{"Content-Type": "application/json"}).
		Body(bytes.NewReader(body)).
		GetJSON(ctx, &res)

	if err != nil {
		return "", err
	}

	if !res.Success {
		return "", errors.New("login failed")
	}

	return res.Role, nil
}

func (r *RemoteAPI) GetMissions(ctx context.Context) ([]*model.Mission, error) {
	res := make([]*model.Mission, 0)

	err := r.request("/missions").GetJSON(ctx, &res)

	return res, err
}

func (r *RemoteAPI) GetLog(ctx context.Context) ([]*model.LogEntry, error) {
	res := make([]*model.LogEntry, 0)

	err := r.request("/log").GetJSON(ctx, &res)

	return res, err
}
