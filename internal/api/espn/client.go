package espn

import (
	"github.com/omarshaarawi/statbot/internal/api/fetch"
	"github.com/omarshaarawi/statbot/internal/config"
)

type Client struct {
	fetcher *fetch.Client
	Config  config.ESPN
}

func NewClient(fetcher *fetch.Client, cfg config.ESPN) *Client {
	return &Client{
		fetcher: fetcher,
		Config:  cfg,
	}
}
