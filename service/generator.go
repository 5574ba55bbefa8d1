package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"marketly-backend/models"
)

// TextGenerator is the upstream text-generation service
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

const (
	defaultAudience = "عام"
	defaultKeywords = "غير محددة"

	defaultGenerationTimeout = 60 * time.Second
)

// ContentGenerator turns campaign parameters into marketing copy
type ContentGenerator struct {
	client  TextGenerator
	timeout time.Duration
}

// NewContentGenerator creates a generator calling client with the given
// per-call timeout. A non-positive timeout falls back to 60s.
func NewContentGenerator(client TextGenerator, timeout time.Duration) *ContentGenerator {
	if timeout <= 0 {
		timeout = defaultGenerationTimeout
	}
	return &ContentGenerator{client: client, timeout: timeout}
}

// Generate builds the prompt, calls the upstream once and returns the cleaned
// text. ProductName and Description must already be validated; Platform and
// Tone must already carry their defaults.
func (g *ContentGenerator) Generate(ctx context.Context, params models.CampaignParams) (string, error) {
	if g.client == nil {
		return "", fmt.Errorf("%w: text generator not set", ErrUpstreamFailure)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	raw, err := g.client.GenerateText(ctx, BuildPrompt(params))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpstreamFailure, err)
	}
	if strings.TrimSpace(raw) == "" {
		return "", ErrEmptyResponse
	}

	return CleanGeneratedText(raw), nil
}

// CleanGeneratedText trims surrounding whitespace and removes markdown
// bold/italic asterisks. Nothing else is touched.
func CleanGeneratedText(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.ReplaceAll(cleaned, "**", "")
	cleaned = strings.ReplaceAll(cleaned, "*", "")
	return cleaned
}

// IsGenerationError reports whether err came from the upstream generator
func IsGenerationError(err error) bool {
	return errors.Is(err, ErrUpstreamFailure) || errors.Is(err, ErrEmptyResponse)
}

// BuildPrompt assembles the instruction prompt for a campaign
func BuildPrompt(p models.CampaignParams) string {
	audience := p.TargetAudience
	if audience == "" {
		audience = defaultAudience
	}
	keywords := p.Keywords
	if keywords == "" {
		keywords = defaultKeywords
	}

	var b strings.Builder

	b.WriteString("**أنت خبير تسويق رقمي محترف في وكالة إعلانات رائدة.**\n\n")
	b.WriteString("**مهمتك:** إنشاء محتوى تسويقي احترافي وجذاب تماماً وجاهز للنشر.\n\n")

	b.WriteString("**تفاصيل الحملة:**\n")
	fmt.Fprintf(&b, "- المنتج/الخدمة: %s\n", p.ProductName)
	fmt.Fprintf(&b, "- وصف المنتج: %s\n", p.Description)
	fmt.Fprintf(&b, "- المنصة المستهدفة: %s\n", p.Platform)
	fmt.Fprintf(&b, "- نبرة المحتوى: %s\n", p.Tone)
	fmt.Fprintf(&b, "- الجمهور المستهدف: %s\n", audience)
	fmt.Fprintf(&b, "- الكلمات المفتاحية: %s\n\n", keywords)

	b.WriteString("**تعليمات دقيقة للغاية:**\n")
	b.WriteString("1. ابدأ بمقدمة قوية وجذابة تلفت الانتباه (3-4 جمل)\n")
	b.WriteString("2. قسم المحتوى إلى أقسام واضحة باستخدام ترويسات فرعية\n")
	fmt.Fprintf(&b, "3. استخدم لغة عربية فصيحة مع مراعاة اللهجة %s\n", p.Tone)
	b.WriteString("4. أضف إيموجيز مناسبة 🚀✨🔥💡 في أماكن استراتيجية\n")
	b.WriteString("5. استخدم هاشتاجات #مناسبة وجذابة في النهاية\n")
	b.WriteString("6. أنهِ بدعوة واضحة للعمل (Call to Action) قوية\n")
	b.WriteString("7. اجعل المحتوى يبدو حديثاً وعصرياً وجاهزاً للنشر مباشرة\n\n")

	b.WriteString("**الشكل المطلوب للمحتوى:**\n")
	b.WriteString("- محتوى منظم بشكل احترافي\n")
	b.WriteString("- فقرات قصيرة وجذابة\n")
	b.WriteString("- نقاط واضحة عندما يكون مناسباً\n")
	b.WriteString("- لغة مقنعة وتفاعلية\n")
	fmt.Fprintf(&b, "- مناسب تماماً لمنصة %s\n\n", p.Platform)

	b.WriteString("**تأكد من:**\n")
	b.WriteString("- جودة المحتوى كأنه كتب بواسطة كاتب محتوى محترف\n")
	fmt.Fprintf(&b, "- تناسق النبرة مع %s\n", p.Tone)
	b.WriteString("- جاذبية المحتوى للجمهور المستهدف\n")
	b.WriteString("- احترافية وجودة عالية\n\n")

	b.WriteString("**لا تكرر المعلومات، بل قدم محتوى أصلياً وإبداعياً.**\n")

	return b.String()
}
