// Package render はナレッジ本文のMarkdownサブセットをHTMLへ変換する。
//
// 対応する記法は見出し（#〜###）、太字、イタリック、インラインコード、
// フェンス付きコードブロック、リンク、箇条書き、段落・改行のみ。
// 変換後のHTMLはbluemondayの許可リストベースのポリシーでサニタイズされ、
// 本文に混入した生のHTMLタグやon*イベント属性は除去される。
package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	fencedPattern   = regexp.MustCompile("(?s)```[a-zA-Z0-9]*\\n(.*?)\\n?```")
	h3Pattern       = regexp.MustCompile(`(?m)^### (.*)$`)
	h2Pattern       = regexp.MustCompile(`(?m)^## (.*)$`)
	h1Pattern       = regexp.MustCompile(`(?m)^# (.*)$`)
	boldPattern     = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicPattern   = regexp.MustCompile(`\*(.*?)\*`)
	codePattern     = regexp.MustCompile("`(.*?)`")
	linkPattern     = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	listItemPattern = regexp.MustCompile(`(?m)^- (.*)$`)
	listPattern     = regexp.MustCompile(`(?:<li>[^\n]*</li>\n?)+`)
	paraPattern     = regexp.MustCompile(`\n{2,}`)
)

// Renderer はMarkdownサブセットの変換とサニタイズを行う。
// ポリシーはイミュータブルなのでスレッドセーフに共有できる。
type Renderer struct {
	policy *bluemonday.Policy
}

// NewRenderer はRendererを生成する。
// ポリシーの内容:
//   - 許可タグ: p, br, h1, h2, h3, strong, em, code, pre, ul, li, a
//   - aタグ: href属性のみ許可し、target="_blank"とrel="noreferrer noopener"を強制付与
//   - 上記以外のタグとon*イベント属性はすべて除去
func NewRenderer() *Renderer {
	p := bluemonday.NewPolicy()

	p.AllowElements("p", "br", "h1", "h2", "h3", "strong", "em", "code", "pre", "ul", "li")

	p.AllowAttrs("href").OnElements("a")
	p.AllowStandardURLs()
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.RequireNoReferrerOnLinks(true)

	return &Renderer{policy: p}
}

// RenderMarkdown は本文をHTMLに変換し、サニタイズして返す。
// 空文字列には空文字列を返す。
func (r *Renderer) RenderMarkdown(content string) string {
	if content == "" {
		return ""
	}

	html := strings.ReplaceAll(content, "\r\n", "\n")

	// フェンス付きコードブロックは中身をインライン変換から守るため
	// 先にプレースホルダへ退避し、最後に戻す
	var codeBlocks []string
	html = fencedPattern.ReplaceAllStringFunc(html, func(m string) string {
		body := fencedPattern.FindStringSubmatch(m)[1]
		codeBlocks = append(codeBlocks, "<pre><code>"+body+"</code></pre>")
		return fmt.Sprintf("\x00code%d\x00", len(codeBlocks)-1)
	})

	html = h3Pattern.ReplaceAllString(html, "<h3>$1</h3>")
	html = h2Pattern.ReplaceAllString(html, "<h2>$1</h2>")
	html = h1Pattern.ReplaceAllString(html, "<h1>$1</h1>")

	html = boldPattern.ReplaceAllString(html, "<strong>$1</strong>")
	html = italicPattern.ReplaceAllString(html, "<em>$1</em>")
	html = codePattern.ReplaceAllString(html, "<code>$1</code>")
	html = linkPattern.ReplaceAllString(html, `<a href="$2">$1</a>`)

	// 連続する「- 」行をひとつの<ul>にまとめる
	html = listItemPattern.ReplaceAllString(html, "<li>$1</li>")
	html = listPattern.ReplaceAllStringFunc(html, func(m string) string {
		return "<ul>" + strings.ReplaceAll(m, "\n", "") + "</ul>\n"
	})

	// 空行で段落を区切り、残った単独改行は<br>にする
	html = paraPattern.ReplaceAllString(html, "</p><p>")
	html = strings.ReplaceAll(html, "\n", "<br>")

	for i, block := range codeBlocks {
		html = strings.Replace(html, fmt.Sprintf("\x00code%d\x00", i), block, 1)
	}

	return r.policy.Sanitize("<p>" + html + "</p>")
}
