package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Chunked upload endpoints for containers too large for a single multipart
// POST. Parts land on local disk; complete assembles the file and runs the
// same probe-and-register path as a direct upload.

func (api *API) initiateChunkedUpload(c *gin.Context) {
	var req struct {
		Filename string `json:"filename" binding:"required"`
		Size     int64  `json:"size" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "filename and size are required"})
		return
	}

	session, err := api.uploads.Initiate(req.Filename, req.Size)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, session)
}

func (api *API) putUploadPart(c *gin.Context) {
	partNumber, err := strconv.Atoi(c.Param("part"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid part number"})
		return
	}

	part, err := api.uploads.PutPart(c.Param("id"), partNumber, c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, part)
}

func (api *API) completeChunkedUpload(c *gin.Context) {
	uploadID := c.Param("id")

	localPath, err := api.uploads.Complete(uploadID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer api.uploads.Remove(uploadID)

	api.registerVideo(c, localPath)
}

func (api *API) getChunkedUpload(c *gin.Context) {
	session, err := api.uploads.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, session)
}

func (api *API) abortChunkedUpload(c *gin.Context) {
	if err := api.uploads.Abort(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Upload aborted"})
}
