// Package i18n holds the screen's translated strings. English message keys
// double as the English text.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var supported = []language.Tag{language.English, language.Indonesian}

var matcher = language.NewMatcher(supported)

var indonesian = map[string]string{
	"Customer Churn Prediction":       "Aplikasi Prediksi Churn Pelanggan",
	"Customer Data":                   "Masukkan Data Pelanggan",
	"Review":                          "Data Pelanggan",
	"Update review":                   "Perbarui",
	"Predict now":                     "Prediksi Sekarang",
	"Analysis Result":                 "Hasil Analisis",
	"Model confidence: %.1f%%":        "Tingkat Keyakinan Model: %.1f%%",
	"Confidence unavailable":          "Tingkat keyakinan tidak tersedia",
	"Yes":                             "Ya",
	"No":                              "Tidak",
	"Gender":                          "Jenis Kelamin",
	"Senior Citizen":                  "Lansia",
	"Partner":                         "Pasangan",
	"Dependents":                      "Tanggungan",
	"Tenure (months)":                 "Lama Langganan (Bulan)",
	"Phone Service":                   "Layanan Telepon",
	"Multiple Lines":                  "Saluran Ganda",
	"Internet Service":                "Layanan Internet",
	"Online Security":                 "Keamanan Online",
	"Online Backup":                   "Cadangan Online",
	"Device Protection":               "Perlindungan Perangkat",
	"Tech Support":                    "Dukungan Teknis",
	"Streaming TV":                    "Streaming TV",
	"Streaming Movies":                "Streaming Film",
	"Contract":                        "Kontrak",
	"Paperless Billing":               "Tagihan Tanpa Kertas",
	"Payment Method":                  "Metode Pembayaran",
	"Monthly Charges ($)":             "Biaya Bulanan ($)",
	"Total Charges ($)":               "Total Biaya ($)",
	"Field":                           "Kolom",
	"Value":                           "Nilai",
	"Invalid input: %s":               "Input tidak valid: %s",
	"Prediction failed, please retry": "Prediksi gagal, silakan coba lagi",

	"Too many predictions, please wait a moment and retry": "Terlalu banyak prediksi, tunggu sebentar lalu coba lagi",

	"CHURN DETECTED! This customer is at risk of churning.": "CHURN DETECTED! Pelanggan ini berisiko tinggi berhenti berlangganan.",
	"SAFE. This customer is predicted to remain.":            "AMAN. Pelanggan ini diprediksi akan tetap setia.",
}

func init() {
	for key, msg := range indonesian {
		if err := message.SetString(language.Indonesian, key, msg); err != nil {
			panic(err)
		}
	}
}

// Match picks the supported language for an explicit choice (e.g. a ?lang=
// parameter) falling back to Accept-Language, then English.
func Match(explicit, acceptLanguage string) language.Tag {
	for _, candidate := range []string{explicit, acceptLanguage} {
		if candidate == "" {
			continue
		}
		tags, _, err := language.ParseAcceptLanguage(candidate)
		if err != nil || len(tags) == 0 {
			continue
		}
		_, index, confidence := matcher.Match(tags...)
		if confidence != language.No {
			return supported[index]
		}
	}
	return language.English
}

// Printer returns a message printer for the tag. Numbers printed through it
// follow the locale's separators.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}
