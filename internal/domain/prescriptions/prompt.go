package prescriptions

// ExtractionPrompt se envía junto a la imagen. Pide solo JSON y da ejemplos
// de frases de frecuencia/duración (incluidas japonesas) -> enteros.
const ExtractionPrompt = `You are a medical prescription analyzer. Analyze this prescription image and extract all medicine information.

Return ONLY a valid JSON object with the following structure:
{
  "medicines": [
    {
      "name": "medicine name (string)",
      "dose": "dosage amount as string (e.g., '500mg', '1錠')",
      "frequency_per_day": number of times to take per day as INTEGER,
      "duration_days": number of days to take as INTEGER,
      "timing": "when to take (e.g., 'morning', 'after meals', 'before bed', '食後', '朝')"
    }
  ]
}

IMPORTANT:
- frequency_per_day MUST be an integer (1, 2, 3, etc.)
- duration_days MUST be an integer (7, 14, 30, etc.)
- "once a day" or "1日1回" = frequency_per_day: 1
- "twice a day" or "1日2回" = frequency_per_day: 2
- "three times a day" or "1日3回" = frequency_per_day: 3
- "for 14 days" or "14日分" = duration_days: 14
- "for a week" or "7日分" = duration_days: 7

Return ONLY valid JSON, no other text or explanation.`
