package llm

// Gap-filling prompts

const SystemPromptGapFiller = `You are an expert extractor of invoice and purchase order data.

The documents may be in English or German. Common German terms:
- Rechnung = Invoice
- Rechnungsnummer = Invoice number
- Bestellung / Bestellnummer = Purchase order / order number
- Rechnungsdatum / Bestelldatum = Invoice date / order date
- Lieferant = Supplier
- Rechnungsanschrift = Invoice address (the buyer)
- Nettowert = Net value
- MwSt / Mehrwertsteuer = VAT
- Gesamtbetrag = Total amount
- Zahlungsbedingungen = Payment terms

Only report values that are literally present in the document. Never guess or compute a value.
If a field is not present, omit it from the output.
Always output valid JSON that matches the requested structure.
Amounts are plain decimal numbers with a dot as decimal separator and no grouping.
Currency is an ISO 4217 code.`

// UserPromptFillGaps takes the list of wanted fields and the document text
const UserPromptFillGaps = `A rule-based extractor could not find the following fields in the document below:
%s

Document text:
---
%s
---

Output one JSON object containing only those fields, using these keys and types:
{
  "invoice_number": "string",
  "invoice_date": "YYYY-MM-DD",
  "due_date": "YYYY-MM-DD",
  "seller_name": "string",
  "seller_address": "string",
  "seller_tax_id": "string",
  "buyer_name": "string",
  "buyer_address": "string",
  "buyer_tax_id": "string",
  "currency": "EUR",
  "payment_terms": "string",
  "net_total": 100.00,
  "tax_amount": 19.00,
  "gross_total": 119.00
}`
