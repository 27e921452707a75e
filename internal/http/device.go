package http

import (
	"errors"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/koboreader/internal/kobo"
)

// DeviceController reads straight from the mounted Kobo on every request.
type DeviceController struct {
	reader *kobo.Reader
}

func NewDeviceController(devicePath string) *DeviceController {
	return &DeviceController{reader: kobo.NewReader(devicePath)}
}

// respondDeviceError maps reader errors onto status codes. Anything that
// means "no usable device" is a 503 since the device comes and goes.
func respondDeviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, kobo.ErrInvalidLookupArgs):
		respondBadRequest(c, "isbn or title query parameter is required")
	case errors.Is(err, kobo.ErrPathInvalid), errors.Is(err, fs.ErrNotExist):
		respondError(c, http.StatusServiceUnavailable, "no Kobo mounted", "device_not_mounted")
	case errors.Is(err, kobo.ErrDatabaseOpen):
		respondError(c, http.StatusServiceUnavailable, "Kobo library database is not readable", "database_unreadable")
	default:
		respondInternalError(c, err, "read device")
	}
}

func (controller *DeviceController) GetDevice(c *gin.Context) {
	device, err := kobo.GetDeviceInfo(c.Request.Context(), controller.reader.DeviceRoot())
	if err != nil {
		respondDeviceError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, device)
}

func (controller *DeviceController) GetSnapshot(c *gin.Context) {
	snapshot, err := controller.reader.LibrarySnapshot(c.Request.Context())
	if err != nil {
		respondDeviceError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"snapshot": snapshot, "stats": snapshot.Stats()})
}

func (controller *DeviceController) GetBooks(c *gin.Context) {
	books, err := controller.reader.GetBooks(c.Request.Context())
	if err != nil {
		respondDeviceError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}

func (controller *DeviceController) FindBook(c *gin.Context) {
	query := kobo.BookQuery{ISBN: c.Query("isbn"), Title: c.Query("title")}

	book, err := controller.reader.FindBook(c.Request.Context(), query)
	if err != nil {
		respondDeviceError(c, err)
		return
	}
	if book == nil {
		respondNotFound(c, "book")
		return
	}
	c.IndentedJSON(http.StatusOK, book)
}
