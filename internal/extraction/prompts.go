package extraction

import (
	"fmt"
	"strings"

	"github.com/akolanti/DocForm/internal/domain/documentModel"
)

const systemPromptTemplate = "You are a%s %s data extraction assistant. IMPORTANT: Return ONLY valid JSON with no preamble, no explanations, and no additional text. The response must start with '{' and end with '}'."

// fieldHints describe what to look for. Fields without a hint are listed by
// name only.
var fieldHints = map[string]string{
	"vendor_name":         "Company or business name issuing the document",
	"invoice_date":        "Look for any date format associated with invoice date/issue date",
	"due_date":            "Payment due date in any format",
	"ship_date":           "Look for any date format associated with shipping date",
	"invoice_number":      "Look for invoice #, reference number, or similar identifiers",
	"vendor_order_number": "Look for SO#, Order #, or similar references",
	"account_number":      "Any customer or account reference number",
	"po_number":           "Purchase order number reference",
	"terms":               "Payment terms in any format found",
	"banking_info":        "Any bank account, routing numbers, or payment instructions",
	"currency":            "Type of currency used (USD, EUR, etc.)",
	"bill_to_address":     "Complete billing address including company name if present",
	"ship_to_address":     "Complete shipping address including company name if present. If the ship to address includes Source Logistics, this is NOT the shipping address - leave null",
	"subtotal":            "Look for numbers that represent a subtotal, typically a float with 2 decimal places",
	"packaging_fee":       "Any packaging or handling charges",
	"freight":             "Any shipping, freight, or delivery charges",
	"sales_tax":           "Tax amount applied",
	"sales_tax_rate":      "Tax rate applied, typically a %",
	"total":               "Final total amount of the document",
	"prepayments_deposit": "Any advance payments or deposits applied",
	"balance_due":         "Remaining amount to be paid",
	"spec_tag":            `Look for text that contains "Item" or "Spec" or "Tag", typically XX-### format, or similar`,
	"tag":                 `The specification tag, typically XX-### format`,
	"description":         "Describes a product or service, like 'decorative bed scarf @ King Guest Room'",
	"quantity":            "A number that represents a quantity, typically a whole number",
	"units":               `A unit of measure, typically 2 or 3 letter codes. If not found, use "EA"`,
	"overage":             "A quantity overage, typically a whole number",
	"unit_price":          "Price per unit, typically a float with 2 decimal places",
	"discount":            "A discount, typically a %",
	"extended_price":      "Total price of the line, typically a float with 2 decimal places",
	"fob":                 "A shipping term, typically a city, state, or country",
	"quote_number":        "Quote #, reference number, or similar identifiers",
	"quote_date":          "Date the quote was issued",
	"expiration_date":     "Date the quote expires",
	"customer_name":       "Name of the customer the quote is for",
	"customer_address":    "Complete customer address including company name if present",
	"submittal_number":    "Submittal #, transmittal number, or similar identifiers",
	"submittal_date":      "Date of the submittal",
}

const instructions = `Instructions:
1. Extract all the fields listed below
2. Return the data in valid JSON format
3. Use null for any fields not found in the text
4. For addresses, include an object with the following fields:
    - company_name: the company name (or null if not found)
    - address_line_1: the first line of the address (or null if not found)
    - address_line_2: the second line of the address (or null if not found)
    - city: the city of the address (or null if not found)
    - state: the state of the address (or null if not found)
    - zip: the zip code of the address (or null if not found)
5. For monetary values, include only the numerical amount, to two decimal places (no currency symbols)
6. Look for variations in field names (e.g., "Shipping" vs "Freight" vs "Freight Charges")
7. For Terms, capture any payment terms format (e.g., "Net 30", "2/10 Net 30", "Due on Receipt")
8. Do not include other texts or comments outside of the JSON format`

// Prompts returns the system and user prompt for docType over the document
// text.
func Prompts(docType documentModel.DocumentType, text string) (string, string, error) {
	layout, err := documentModel.LayoutFor(docType)
	if err != nil {
		return "", "", err
	}
	name := string(docType)
	article := ""
	if strings.ContainsRune("aeiou", rune(name[0])) {
		article = "n"
	}
	system := fmt.Sprintf(systemPromptTemplate, article, name)

	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert at extracting information from %ss. Analyze the following %s text and extract the requested information.\n\n", name, name)
	fmt.Fprintf(&b, "Text to analyze:\n%s\n\n", text)
	b.WriteString(instructions)
	b.WriteString("\n\nFields to extract:\n")
	writeFields(&b, layout, "-")
	return system, b.String(), nil
}

func writeFields(b *strings.Builder, layout documentModel.Layout, bullet string) {
	for _, f := range layout.Fields {
		writeField(b, f.Name, bullet)
		switch f.Kind {
		case documentModel.LineItems:
			for _, item := range documentModel.LineItemFields {
				writeField(b, item.Name, bullet+"-")
			}
		case documentModel.Nested:
			if nested, err := documentModel.LayoutFor(f.Nested); err == nil {
				writeFields(b, nested, bullet+"-")
			}
		}
	}
}

func writeField(b *strings.Builder, name, bullet string) {
	if hint, ok := fieldHints[name]; ok {
		fmt.Fprintf(b, "%s %s: %s\n", bullet, name, hint)
		return
	}
	fmt.Fprintf(b, "%s %s\n", bullet, name)
}
