package llm

import (
	"fmt"
	"time"

	"github.com/fingenie-expense-tracker/internal/domain/transaction"
)

const promptTemplate = `Today is %s (Year: %d).
You are a smart expense extraction assistant.

Extract the following fields from the user's sentence:
- description (short summary of what the money was spent on)
- amount (a number, amounts may be given in ₹ or Rs)
- category (food, groceries, rent, travel, shopping, entertainment, health, transport or other)
- mode (payment method such as Cash, PhonePe, GPay, Paytm, UPI, Card, NetBanking, Wallet)
- date (replace words like today or yesterday with the real date in YYYY-MM-DD format)
- split_with (list of names the expense is shared with, else an empty list)
- note (anything else worth keeping, else omit)

Examples:
1. "I paid 900 for dinner with Rahul and Sneha via GPay"
2. "Yesterday I spent 1200 on rent"
3. "Split ₹800 for lunch with Riya and me using PhonePe"

Return ONLY valid raw JSON, one object, no explanation and no Markdown, like:
{"description": "Dinner", "amount": 900, "category": "food", "mode": "GPay", "date": "%s", "split_with": ["Rahul", "Sneha"]}

Now extract from:
"%s"
`

// BuildPrompt renders the extraction prompt for a transcript as of now.
func BuildPrompt(now time.Time, transcript string) string {
	today := now.Format(transaction.DateLayout)
	return fmt.Sprintf(promptTemplate, today, now.Year(), today, transcript)
}
