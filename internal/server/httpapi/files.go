package httpapi

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/avcastro/vaultbox/internal/server/services"
)

const defaultHistogramLimit = 5

type uploadResult struct {
	Uploaded any             `json:"uploaded"`
	Errors   []uploadFailure `json:"errors,omitempty"`
}

type uploadFailure struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// uploadFiles accepts a multipart batch under the "files" field. Partial
// success still returns 200; per-file failures travel in the errors array.
func (s *Server) uploadFiles(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		respError(c, http.StatusBadRequest, "multipart form required")
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		respError(c, http.StatusBadRequest, "no files provided")
		return
	}

	inputs := make([]*services.UploadInput, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			respError(c, http.StatusBadRequest, "unreadable file "+fh.Filename)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			respError(c, http.StatusBadRequest, "unreadable file "+fh.Filename)
			return
		}
		inputs = append(inputs, &services.UploadInput{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	created, failed := s.files.Upload(c.Request.Context(), principalFrom(c), inputs)

	result := uploadResult{Uploaded: created}
	for _, f := range failed {
		result.Errors = append(result.Errors, uploadFailure{Name: f.Name, Error: f.Err.Error()})
	}
	if len(created) == 0 {
		c.JSON(http.StatusBadRequest, APIResponse{Success: false, Message: "no files stored", Data: result})
		return
	}
	respSuccess(c, result)
}

func (s *Server) listFiles(c *gin.Context) {
	files, err := s.files.ListAccessible(c.Request.Context(), principalFrom(c))
	if err != nil {
		respServiceError(c, err)
		return
	}
	respSuccess(c, files)
}

func (s *Server) downloadFile(c *gin.Context) {
	name, data, err := s.files.Download(c.Request.Context(), c.Param("id"), principalFrom(c))
	if err != nil {
		respServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "application/octet-stream", data)
}

func (s *Server) deleteFile(c *gin.Context) {
	if err := s.files.Delete(c.Request.Context(), c.Param("id"), principalFrom(c)); err != nil {
		respServiceError(c, err)
		return
	}
	respSuccessStr(c, "file deleted")
}

func (s *Server) toggleStar(c *gin.Context) {
	starred, err := s.files.ToggleStar(c.Request.Context(), c.Param("id"))
	if err != nil {
		respServiceError(c, err)
		return
	}
	respSuccess(c, gin.H{"is_starred": starred})
}

type privacyRequest struct {
	Private *bool `json:"is_private" binding:"required"`
}

func (s *Server) setPrivacy(c *gin.Context) {
	var req privacyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respError(c, http.StatusBadRequest, "is_private is required")
		return
	}
	if err := s.files.SetPrivacy(c.Request.Context(), c.Param("id"), principalFrom(c), *req.Private); err != nil {
		respServiceError(c, err)
		return
	}
	respSuccess(c, gin.H{"is_private": *req.Private})
}

type shareRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (s *Server) shareFile(c *gin.Context) {
	var req shareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respError(c, http.StatusBadRequest, "a valid email is required")
		return
	}
	share, err := s.files.Share(c.Request.Context(), c.Param("id"), principalFrom(c), req.Email)
	if err != nil {
		respServiceError(c, err)
		return
	}
	respSuccess(c, share)
}

func (s *Server) unshareFile(c *gin.Context) {
	var req shareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respError(c, http.StatusBadRequest, "a valid email is required")
		return
	}
	if err := s.files.Unshare(c.Request.Context(), c.Param("id"), principalFrom(c), req.Email); err != nil {
		respServiceError(c, err)
		return
	}
	respSuccessStr(c, "share revoked")
}

func (s *Server) totalSize(c *gin.Context) {
	total, err := s.files.TotalSize(c.Request.Context(), principalFrom(c))
	if err != nil {
		respServiceError(c, err)
		return
	}
	respSuccess(c, gin.H{"total_size": total})
}

func (s *Server) extensionHistogram(c *gin.Context) {
	limit := defaultHistogramLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respError(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	hist, err := s.files.ExtensionHistogram(c.Request.Context(), principalFrom(c), limit)
	if err != nil {
		respServiceError(c, err)
		return
	}
	respSuccess(c, hist)
}
