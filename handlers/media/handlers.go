package media

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"skilllink/backend/errors"
	"skilllink/backend/handlers/auth"
	"skilllink/backend/handlers/httputil"
	"skilllink/backend/store"
)

const (
	maxFileSize = 10 << 20 // 10 MB

	// URLPrefix is where the server mounts the upload directory.
	URLPrefix = "/uploads/"

	profilePictureDir = "profile_pictures"
)

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

// UploadResponse represents the response for a successful upload
type UploadResponse struct {
	URL string `json:"url"`
}

// UploadProfilePictureHandler handles profile picture uploads
// Used by: POST /api/upload/profile-picture
func UploadProfilePictureHandler(users store.UserStore, uploadDir string, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := auth.MustUserID(r)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxFileSize+(1<<20))
		if err := r.ParseMultipartForm(maxFileSize); err != nil {
			httputil.WriteError(w, logger, errors.InvalidInput("File too large. Maximum size is 10MB", err))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			httputil.WriteError(w, logger, errors.InvalidInput("No file uploaded", err))
			return
		}
		defer file.Close()

		if header.Size > maxFileSize {
			httputil.WriteError(w, logger, errors.InvalidInput("File too large. Maximum size is 10MB", nil))
			return
		}

		// Sniff the content instead of trusting the part header.
		head := make([]byte, 512)
		n, err := io.ReadFull(file, head)
		if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
			httputil.WriteError(w, logger, errors.InvalidInput("Invalid file", err))
			return
		}
		ext, ok := allowedTypes[http.DetectContentType(head[:n])]
		if !ok {
			httputil.WriteError(w, logger, errors.InvalidInput("Invalid file type. Only JPEG, PNG, and GIF are allowed", nil))
			return
		}
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			httputil.WriteError(w, logger, errors.Internal("Failed to read file", err))
			return
		}

		filename := fmt.Sprintf("%d_%s%s", userID, uuid.NewString(), ext)
		uploadPath := filepath.Join(uploadDir, profilePictureDir, filename)

		if err := os.MkdirAll(filepath.Dir(uploadPath), 0755); err != nil {
			httputil.WriteError(w, logger, errors.Internal("Failed to create upload directory", err))
			return
		}

		dst, err := os.Create(uploadPath)
		if err != nil {
			httputil.WriteError(w, logger, errors.Internal("Failed to create file", err))
			return
		}
		if _, err := io.Copy(dst, file); err != nil {
			dst.Close()
			os.Remove(uploadPath)
			httputil.WriteError(w, logger, errors.Internal("Failed to save file", err))
			return
		}
		if err := dst.Close(); err != nil {
			os.Remove(uploadPath)
			httputil.WriteError(w, logger, errors.Internal("Failed to save file", err))
			return
		}

		previous, err := users.GetUser(r.Context(), userID)
		if err != nil {
			os.Remove(uploadPath)
			httputil.WriteError(w, logger, err)
			return
		}

		fileURL := URLPrefix + profilePictureDir + "/" + filename
		if err := users.SetProfileImage(r.Context(), userID, &fileURL); err != nil {
			// Clean up the uploaded file if the database update fails
			os.Remove(uploadPath)
			httputil.WriteError(w, logger, err)
			return
		}
		if previous.ProfileImageURL != nil {
			removeUpload(uploadDir, *previous.ProfileImageURL, logger)
		}

		logger.Info("profile picture uploaded", zap.Int64("user_id", userID), zap.String("url", fileURL))
		httputil.WriteJSON(w, http.StatusOK, UploadResponse{URL: fileURL})
	}
}

// DeleteProfilePictureHandler handles profile picture deletion
// Used by: DELETE /api/upload/profile-picture
func DeleteProfilePictureHandler(users store.UserStore, uploadDir string, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := auth.MustUserID(r)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}

		u, err := users.GetUser(r.Context(), userID)
		if err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		if u.ProfileImageURL == nil || *u.ProfileImageURL == "" {
			httputil.WriteError(w, logger, errors.InvalidInput("No profile picture to delete", nil))
			return
		}

		if err := users.SetProfileImage(r.Context(), userID, nil); err != nil {
			httputil.WriteError(w, logger, err)
			return
		}
		removeUpload(uploadDir, *u.ProfileImageURL, logger)

		w.WriteHeader(http.StatusNoContent)
	}
}

// removeUpload deletes the file behind a /uploads/ URL. Only files inside
// the profile picture directory are touched.
func removeUpload(uploadDir, fileURL string, logger *zap.Logger) {
	if !strings.HasPrefix(fileURL, URLPrefix+profilePictureDir+"/") {
		return
	}
	path := filepath.Join(uploadDir, profilePictureDir, filepath.Base(fileURL))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Warn("error deleting file", zap.String("path", path), zap.Error(err))
	}
}
