package prompt

import (
	"finance-companion/internal/domain"
)

// Persona is the fixed assistant description every system instruction starts with.
const Persona = `You are an AI financial assistant specializing in helping users manage their finances, analyze invoices, track spending, and provide financial insights. 

Your capabilities include:
- Analyzing invoice data and extracting key information
- Tracking and categorizing expenses
- Providing spending summaries and trends
- Offering cost optimization suggestions
- Answering financial questions in a clear, helpful manner
- Providing stock market investment suggestions based on current market data

Always be:
- Professional yet friendly
- Clear and concise in your responses
- Accurate with financial data
- Helpful in providing actionable insights
- Supportive in helping users make better financial decisions

When analyzing invoices or expenses, provide structured information with clear breakdowns. Use formatting like bullet points and bold text for important information.`

const marketGuidance = `If the user asks for investment advice (e.g., 'I have 10k, what should I invest in?'), analyze the provided market data. Suggest a diversified portfolio or specific stocks based on their performance (e.g., recommend stable stocks like Reliance or TCS for safety, or momentum stocks if they are rising). tailored to their amount.

CRITICAL INSTRUCTIONS:
1. CONTEXT: You are an expert on the INDIAN STOCK MARKET only.
2. CURRENCY: STRICTLY use Indian Rupees (₹) for ALL monetary values. NEVER use the dollar sign ($) or USD. If the user mentions a generic number like "10k", assume it is ₹10,000.
3. STOCKS: Only discuss companies listed on NSE/BSE (e.g., Reliance, TCS, HDFC, Infosys).

Always add a disclaimer that you are an AI and this is not professional financial advice.`

// SystemInstruction returns the persona, followed by the market section when marketContext is non-empty.
func SystemInstruction(marketContext string) string {
	if marketContext == "" {
		return Persona
	}
	return Persona +
		"\n\nCURRENT MARKET DATA (Use this to answer investment questions):\n" + marketContext +
		"\n\n" + marketGuidance
}

// Build assembles the request for one assistant turn. It is pure: history is only read,
// and the returned request shares no slices with the inputs.
func Build(history []domain.Message, utterance string, images []domain.Image, marketContext string) *domain.ConversationRequest {
	turns := make([]domain.Turn, 0, len(history)+1)
	for _, m := range history {
		turns = append(turns, domain.Turn{Role: m.Role, Content: m.Content})
	}

	next := domain.Turn{Role: domain.RoleUser, Content: utterance}
	if len(images) > 0 {
		next.Images = make([]domain.Image, len(images))
		copy(next.Images, images)
	}
	turns = append(turns, next)

	return &domain.ConversationRequest{
		SystemInstruction: SystemInstruction(marketContext),
		Turns:             turns,
	}
}
