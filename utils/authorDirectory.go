package utils

import (
	"log"
	"strings"
	"time"

	"github.com/Ix1ax/upme-platform/config"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

var directoryClient = resty.New().SetTimeout(5 * time.Second)

// FetchAuthorNames resolves author display names from the user directory
// service. Lookup failures degrade to empty names; the catalog still renders.
func FetchAuthorNames(ids []uuid.UUID) map[uuid.UUID]string {
	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 || config.AppConfig.AuthDirectoryURL == "" {
		return names
	}

	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = id.String()
	}

	var result struct {
		Data map[string]string `json:"data"`
	}
	resp, err := directoryClient.R().
		SetQueryParam("ids", strings.Join(idStrings, ",")).
		SetResult(&result).
		Get(config.AppConfig.AuthDirectoryURL + "/api/users/names")
	if err != nil || resp.IsError() {
		log.Printf("Author directory lookup failed: %v", err)
		return names
	}

	for idStr, name := range result.Data {
		if id, parseErr := uuid.Parse(idStr); parseErr == nil {
			names[id] = name
		}
	}
	return names
}
