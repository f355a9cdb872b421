package docchat

import "strings"

// DefaultQATemplate is the grounded-answer instruction template. It has two
// named slots, {{$context}} and {{$input}}, and pins the answer contract:
// answer only from the supplied context, say "정보를 찾을 수 없습니다."
// when the context is insufficient, and answer in polite Korean.
const DefaultQATemplate = `당신은 질문에 답변하는 AI 어시스턴트입니다.
제공된 컨텍스트 정보를 사용하여 질문에 답변해 주세요.
만약 컨텍스트에서 답을 찾을 수 없다면, "정보를 찾을 수 없습니다."라고 솔직하게 말해주세요.
답변은 항상 한국어로, 친절한 존댓말로 작성해야 합니다.

---
[컨텍스트]:
{{$context}}
---

[질문]:
{{$input}}

[답변]:
`

// ComposerOption configures a Composer.
type ComposerOption func(*Composer)

// WithTemplate replaces the grounded-answer template. The template must
// contain the {{$context}} and {{$input}} slots.
func WithTemplate(tmpl string) ComposerOption {
	return func(c *Composer) { c.template = tmpl }
}

// Composer merges a query and retrieved context into the prompt payload
// handed to the generation capability.
type Composer struct {
	template string
}

// NewComposer creates a Composer with the default grounded template.
func NewComposer(opts ...ComposerOption) *Composer {
	c := &Composer{template: DefaultQATemplate}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Compose builds the generation request. In ungrounded mode the payload is
// the raw query alone. In grounded mode the template slots are populated
// with the retrieved context and the raw query.
func (c *Composer) Compose(query, context string, grounded bool) ChatRequest {
	if !grounded {
		return ChatRequest{Messages: []ChatMessage{UserMessage(query)}}
	}
	prompt := strings.NewReplacer(
		"{{$context}}", context,
		"{{$input}}", query,
	).Replace(c.template)
	return ChatRequest{Messages: []ChatMessage{UserMessage(prompt)}}
}
