package models

// Shakespeare corpus tables. The dataset is read-mostly; rows are loaded
// once and queried by character.

type Work struct {
	ID              string  `json:"id"               gorm:"type:varchar(32);primaryKey"`
	Title           string  `json:"title"            gorm:"type:varchar(32)"`
	LongTitle       string  `json:"long_title"       gorm:"type:varchar(64)"`
	Year            int     `json:"year"`
	GenreType       string  `json:"genre_type"       gorm:"type:varchar(1)"`
	Source          string  `json:"source"           gorm:"type:varchar(16)"`
	TotalWords      int     `json:"total_words"`
	TotalParagraphs int     `json:"total_paragraphs"`
	Notes           *string `json:"notes"            gorm:"type:text"`
}

func (Work) TableName() string { return "work" }

type Character struct {
	ID          string  `json:"id"           gorm:"type:varchar(32);primaryKey"`
	Name        string  `json:"name"         gorm:"type:varchar(64);index"`
	SpeechCount int     `json:"speech_count"`
	Abbrev      *string `json:"abbrev"       gorm:"type:varchar(32)"`
	Description *string `json:"description"  gorm:"type:varchar(2056)"`
}

func (Character) TableName() string { return "character" }

type Chapter struct {
	ID            int    `json:"id"             gorm:"primaryKey"`
	WorkID        string `json:"work_id"        gorm:"type:varchar(32);index"`
	SectionNumber int    `json:"section_number"`
	ChapterNumber int    `json:"chapter_number"`
	Description   string `json:"description"    gorm:"type:varchar(256)"`
}

func (Chapter) TableName() string { return "chapter" }

type Paragraph struct {
	ID            int    `json:"id"             gorm:"primaryKey"`
	WorkID        string `json:"work_id"        gorm:"type:varchar(32);index"`
	ParagraphNum  int    `json:"paragraph_num"`
	CharacterID   string `json:"character_id"   gorm:"type:varchar(32);index"`
	PlainText     string `json:"plain_text"     gorm:"type:text"`
	PhoneticText  string `json:"phonetic_text"  gorm:"type:text"`
	StemText      string `json:"stem_text"      gorm:"type:text"`
	ParagraphType string `json:"paragraph_type" gorm:"type:varchar(1)"`
	SectionNumber int    `json:"section_number"`
	ChapterNumber int    `json:"chapter_number"`
	CharCount     int    `json:"char_count"`
	WordCount     int    `json:"word_count"`
}

func (Paragraph) TableName() string { return "paragraph" }

// CharacterWork joins characters to the works they appear in.
type CharacterWork struct {
	CharacterID string `json:"character_id" gorm:"type:varchar(32);primaryKey"`
	WorkID      string `json:"work_id"      gorm:"type:varchar(32);primaryKey"`
}

func (CharacterWork) TableName() string { return "character_work" }
