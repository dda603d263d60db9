package handler

import (
	"encoding/xml"
	"net/http"
	"strings"
	"time"

	"github.com/supporterz-inc/hocus-pocus-c-2025-term1/internal/model"
	"github.com/supporterz-inc/hocus-pocus-c-2025-term1/internal/repository"
)

// rssItemLimit はフィードに載せる最大記事数。
const rssItemLimit = 50

// rssTitleLimit はタイトルに使う本文先頭の最大文字数（ルーン数）。
const rssTitleLimit = 60

type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	GUID        string `xml:"guid"`
	PubDate     string `xml:"pubDate"`
	Description string `xml:"description"`
}

// RSSHandler は最近のナレッジをRSS 2.0として配信するハンドラー。
type RSSHandler struct {
	repo    repository.KnowledgeRepository
	baseURL string
}

// NewRSSHandler はRSSHandlerを生成する。
// baseURLはフィード内のリンクの組み立てに使う（例: http://localhost:8080）。
func NewRSSHandler(repo repository.KnowledgeRepository, baseURL string) *RSSHandler {
	return &RSSHandler{
		repo:    repo,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// ServeFeed は更新日時の新しい順で最大50件のナレッジをRSSで返す。
// GET /feed
func (h *RSSHandler) ServeFeed(w http.ResponseWriter, r *http.Request) {
	knowledges, err := h.repo.GetAll(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if len(knowledges) > rssItemLimit {
		knowledges = knowledges[:rssItemLimit]
	}

	items := make([]rssItem, 0, len(knowledges))
	for _, k := range knowledges {
		items = append(items, rssItem{
			Title:       rssTitle(k),
			Link:        h.baseURL + "/api/knowledge/" + k.ID,
			GUID:        k.ID,
			PubDate:     time.Unix(k.CreatedAt, 0).UTC().Format(time.RFC1123Z),
			Description: k.Content,
		})
	}

	feed := rssFeed{
		Version: "2.0",
		Channel: rssChannel{
			Title:       "Hocus Pocus ナレッジフィード",
			Link:        h.baseURL,
			Description: "日替わりテーマに沿って投稿されたナレッジの新着一覧",
			Items:       items,
		},
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(xml.Header))
	xml.NewEncoder(w).Encode(feed)
}

// rssTitle は本文の先頭行からフィード用タイトルを作る。
func rssTitle(k model.Knowledge) string {
	line := k.Content
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(strings.TrimLeft(line, "# "))

	runes := []rune(line)
	if len(runes) > rssTitleLimit {
		return string(runes[:rssTitleLimit]) + "…"
	}
	return line
}
