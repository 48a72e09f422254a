package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"raceday/clients/gcp"
	"raceday/services/seeder"
)

// SeedDatabase loads the dataset from the request body, or from the
// configured GCS object when the body is empty.
func (s Server) SeedDatabase(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		badRequest(c, "failed to read request body")
		return
	}
	if len(bytes.TrimSpace(body)) == 0 {
		var buf bytes.Buffer
		if err := gcp.DownloadObject(c.Request.Context(), &buf, s.Env.SeedBucket, s.Env.SeedObject); err != nil {
			log.Error().Err(err).
				Str("bucket", s.Env.SeedBucket).
				Str("object", s.Env.SeedObject).
				Msg("failed to download seed dataset")
			fail(c, err)
			return
		}
		body = buf.Bytes()
	}

	var ds seeder.Dataset
	if err := json.Unmarshal(body, &ds); err != nil {
		badRequest(c, "invalid seed dataset")
		return
	}
	counts, err := s.SeederService.Seed(c.Request.Context(), ds)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database seeded successfully!",
		"created": counts,
	})
}

func (s Server) ClearDatabase(c *gin.Context) {
	deleted, err := s.SeederService.Clear(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database cleared successfully!",
		"deleted": deleted,
	})
}
