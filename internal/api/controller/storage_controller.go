package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ziyyanmart/localstore/internal/command"
)

// StorageReporter is implemented by command.Commands.
type StorageReporter interface {
	Storage() (command.StorageInfo, error)
}

// StorageController reports where the documents live on disk.
type StorageController struct {
	reporter StorageReporter
}

func NewStorageController(reporter StorageReporter) *StorageController {
	return &StorageController{reporter: reporter}
}

func (sc *StorageController) GetStorage(c *gin.Context) {
	info, err := sc.reporter.Storage()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}
