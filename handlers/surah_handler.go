package handlers

import (
	"strconv"

	"quranstudy/apperror"
	"quranstudy/response"
	"quranstudy/services"

	"github.com/gin-gonic/gin"
)

type SurahHandler struct {
	surahService  *services.SurahService
	searchService *services.SearchService
}

func NewSurahHandler(surahService *services.SurahService, searchService *services.SearchService) *SurahHandler {
	return &SurahHandler{surahService: surahService, searchService: searchService}
}

func (h *SurahHandler) Dashboard(c *gin.Context) {
	surahs, err := h.surahService.Dashboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Success", surahs)
}

func (h *SurahHandler) GetSurah(c *gin.Context) {
	raw := c.Param("surahId")
	number, err := strconv.Atoi(raw)
	if err != nil || len(raw) > 3 {
		response.Error(c, apperror.BadRequest(`"surahId" must be a number between 1 and 114`))
		return
	}

	surah, err := h.surahService.GetByNumber(c.Request.Context(), number)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Success", surah)
}

type searchQuery struct {
	Query string `form:"query" binding:"max=100"`
}

func (h *SurahHandler) Search(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	surahs, err := h.searchService.Search(c.Request.Context(), q.Query)
	if err != nil {
		response.Error(c, err)
		return
	}
	if len(surahs) == 0 {
		response.OK(c, "No results found", surahs)
		return
	}
	response.OK(c, "Search results retrieved successfully", surahs)
}
