// Note: To generate test data, start the server with ENABLE_TEST_DATA=true and use:
// curl -X POST "http://localhost:8080/api/test/generate-users?count=5"

package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"skilllink/backend/errors"
	"skilllink/backend/handlers/httputil"
	"skilllink/backend/services/seed"
)

const defaultTestUsers = 10

type GenerateResponse struct {
	Message string `json:"message"`
	*seed.Result
}

// GenerateTestDataHandler creates fake members through the seeder
// Used by: POST /api/test/generate-users?count=N
func GenerateTestDataHandler(seeder *seed.Seeder, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count := defaultTestUsers
		if countParam := r.URL.Query().Get("count"); countParam != "" {
			parsedCount, err := strconv.Atoi(countParam)
			if err != nil || parsedCount < 1 || parsedCount > seed.MaxCount {
				httputil.WriteError(w, logger, errors.InvalidInput(
					fmt.Sprintf("Count must be between 1 and %d", seed.MaxCount), err))
				return
			}
			count = parsedCount
		}

		res, err := seeder.Users(r.Context(), count)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		httputil.WriteJSON(w, http.StatusCreated, GenerateResponse{
			Message: "Test user(s) generated successfully",
			Result:  res,
		})
	}
}
