package cli

import "etika-quiz-service/internal/domain"

type seedQuestion struct {
	Text    string
	Options []string
	Correct int
}

// seedQuestions is the AI-ethics question bank. Each question has exactly one
// correct option.
func seedQuestions() []seedQuestion {
	return []seedQuestion{
		{
			Text: "Apa yang dimaksud dengan 'AI Bias'?",
			Options: []string{
				"Kesalahan teknis dalam kode",
				"Prasangka yang tertanam dalam data dan model AI",
				"Bug dalam algoritma",
				"Masalah hardware",
			},
			Correct: 1,
		},
		{
			Text: "Prinsip etika apa yang paling penting dalam pengembangan AI?",
			Options: []string{
				"Kecepatan pemrosesan",
				"Transparansi dan akuntabilitas",
				"Ukuran model",
				"Jumlah parameter",
			},
			Correct: 1,
		},
		{
			Text: "Bagaimana cara terbaik menangani data pribadi dalam sistem AI?",
			Options: []string{
				"Menyimpan semua data",
				"Menerapkan prinsip privasi sejak desain",
				"Membagikan ke publik",
				"Mengabaikan masalah privasi",
			},
			Correct: 1,
		},
		{
			Text: "Apa itu 'Explainable AI' (XAI)?",
			Options: []string{
				"AI yang cepat",
				"AI yang bisa dijelaskan keputusannya",
				"AI yang mahal",
				"AI yang kompleks",
			},
			Correct: 1,
		},
		{
			Text: "Mengapa keberagaman tim pengembang AI penting?",
			Options: []string{
				"Tidak penting",
				"Mengurangi bias dan meningkatkan perspektif",
				"Meningkatkan profit",
				"Formalitas saja",
			},
			Correct: 1,
		},
		{
			Text: "Apa tanggung jawab utama pengembang AI?",
			Options: []string{
				"Profit maksimal",
				"Memastikan AI bermanfaat dan tidak merugikan",
				"Kecepatan development",
				"Mengikuti tren",
			},
			Correct: 1,
		},
		{
			Text: "Bagaimana AI seharusnya memperlakukan data anak-anak?",
			Options: []string{
				"Dengan perlindungan khusus",
				"Sama seperti data lain",
				"Mengabaikan",
				"Mempublikasikan",
			},
			Correct: 0,
		},
		{
			Text: "Apa itu 'AI Fairness'?",
			Options: []string{
				"Keadilan dalam hasil AI untuk semua kelompok",
				"Kecepatan AI",
				"Harga AI",
				"Ukuran model AI",
			},
			Correct: 0,
		},
		{
			Text: "Mengapa transparansi AI penting?",
			Options: []string{
				"Tidak penting",
				"Membangun kepercayaan dan akuntabilitas",
				"Meningkatkan kecepatan",
				"Mengurangi biaya",
			},
			Correct: 1,
		},
		{
			Text: "Apa yang dimaksud dengan 'AI Safety'?",
			Options: []string{
				"Memastikan AI aman dan terkendali",
				"Keamanan server",
				"Backup data",
				"Kecepatan AI",
			},
			Correct: 0,
		},
		{
			Text: "Bagaimana menangani kesalahan prediksi AI dalam konteks medis?",
			Options: []string{
				"Mengabaikan",
				"Menerapkan review manusia dan protokol keamanan",
				"Menyembunyikan",
				"Menghapus data",
			},
			Correct: 1,
		},
		{
			Text: "Apa peran etika dalam pengembangan chatbot?",
			Options: []string{
				"Tidak ada",
				"Memastikan interaksi yang aman dan bertanggung jawab",
				"Hanya estetika",
				"Formalitas",
			},
			Correct: 1,
		},
		{
			Text: "Bagaimana menangani bias gender dalam AI?",
			Options: []string{
				"Mengabaikan",
				"Mengaudit dan memperbaiki dataset",
				"Menyembunyikan",
				"Tidak penting",
			},
			Correct: 1,
		},
		{
			Text: "Apa dampak sosial yang perlu dipertimbangkan dalam pengembangan AI?",
			Options: []string{
				"Tidak ada",
				"Dampak pada pekerjaan dan kesenjangan sosial",
				"Hanya profit",
				"Kecepatan saja",
			},
			Correct: 1,
		},
		{
			Text: "Bagaimana menyeimbangkan inovasi AI dengan etika?",
			Options: []string{
				"Fokus profit saja",
				"Menerapkan framework etika dalam setiap tahap pengembangan",
				"Mengabaikan etika",
				"Fokus kecepatan",
			},
			Correct: 1,
		},
		{
			Text: "Apa itu 'AI Governance'?",
			Options: []string{
				"Tidak penting",
				"Kerangka kerja untuk mengatur pengembangan AI yang bertanggung jawab",
				"Kecepatan AI",
				"Harga AI",
			},
			Correct: 1,
		},
		{
			Text: "Bagaimana melindungi privasi dalam sistem pengenalan wajah?",
			Options: []string{
				"Mengabaikan",
				"Menerapkan consent dan enkripsi data",
				"Menyimpan semua data",
				"Membagi data",
			},
			Correct: 1,
		},
		{
			Text: "Apa tanggung jawab AI terhadap lingkungan?",
			Options: []string{
				"Tidak ada",
				"Efisiensi energi dan keberlanjutan",
				"Hanya profit",
				"Kecepatan saja",
			},
			Correct: 1,
		},
		{
			Text: "Bagaimana menangani dilema etis dalam keputusan AI?",
			Options: []string{
				"Framework etika dan review manusia",
				"Mengabaikan",
				"Otomatis saja",
				"Tidak penting",
			},
			Correct: 0,
		},
		{
			Text: "Apa peran transparansi dalam AI medis?",
			Options: []string{
				"Membangun kepercayaan dan keamanan pasien",
				"Tidak penting",
				"Formalitas saja",
				"Mengabaikan",
			},
			Correct: 0,
		},
	}
}

// sampleBank converts the seed data into in-memory entities for the
// no-postgres fallback mode.
func sampleBank() ([]domain.Question, []domain.AnswerOption) {
	var (
		questions []domain.Question
		options   []domain.AnswerOption
		optionID  int64
	)
	for i, seed := range seedQuestions() {
		questionID := int64(i + 1)
		questions = append(questions, domain.Question{ID: questionID, Text: seed.Text})
		for j, text := range seed.Options {
			optionID++
			options = append(options, domain.AnswerOption{
				ID:         optionID,
				QuestionID: questionID,
				Text:       text,
				Correct:    j == seed.Correct,
			})
		}
	}
	return questions, options
}
