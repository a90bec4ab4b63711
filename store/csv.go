package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/rushteam/mangarec/core"
)

// CSVStore 以 CSV 文件为后端的目录 + 评分存储（原型部署的默认后端）。
// items.csv: item_id,title,category,author,year,tags,synopsis,image_url
// ratings.csv: user_id,item_id,rating
//
// 评分每次 Load 重新读取文件 —— 外部协作方可能在两次调用之间追加评分。
// SaveRating 全量重写文件（先写临时文件再原子替换）。
type CSVStore struct {
	ItemsPath   string
	RatingsPath string

	mu sync.Mutex // 串行化 SaveRating 的读-改-写
}

func NewCSVStore(itemsPath, ratingsPath string) *CSVStore {
	return &CSVStore{ItemsPath: itemsPath, RatingsPath: ratingsPath}
}

func (s *CSVStore) Name() string { return "csv" }

// itemColumns 是 items.csv 必需列；缺列是致命错误。
var itemColumns = []string{"item_id", "title", "category", "author", "year", "tags"}

func (s *CSVStore) LoadItems(ctx context.Context) ([]core.Item, error) {
	rows, header, err := readCSV(s.ItemsPath)
	if err != nil {
		return nil, err
	}

	col, err := columnIndex(header, itemColumns, s.ItemsPath)
	if err != nil {
		return nil, err
	}
	synopsisCol, hasSynopsis := findColumn(header, "synopsis")
	imageCol, hasImage := findColumn(header, "image_url")

	items := make([]core.Item, 0, len(rows))
	for i, row := range rows {
		if err := checkRowWidth(row, col, s.ItemsPath, i); err != nil {
			return nil, err
		}
		id, err := strconv.ParseInt(row[col["item_id"]], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad item_id %q: %w", s.ItemsPath, i+2, row[col["item_id"]], err)
		}
		it := core.Item{
			ID:       id,
			Title:    row[col["title"]],
			Category: row[col["category"]],
			Author:   row[col["author"]],
			Year:     row[col["year"]],
			Tags:     row[col["tags"]],
		}
		if hasSynopsis && synopsisCol < len(row) {
			it.Synopsis = row[synopsisCol]
		}
		if hasImage && imageCol < len(row) {
			it.ImageURL = row[imageCol]
		}
		items = append(items, it)
	}
	return items, nil
}

var ratingColumns = []string{"user_id", "item_id", "rating"}

func (s *CSVStore) LoadRatings(ctx context.Context) (core.Ratings, error) {
	if _, err := os.Stat(s.RatingsPath); os.IsNotExist(err) {
		// 还没有任何评分：合法的空快照
		return core.Ratings{}, nil
	}

	rows, header, err := readCSV(s.RatingsPath)
	if err != nil {
		return nil, err
	}
	col, err := columnIndex(header, ratingColumns, s.RatingsPath)
	if err != nil {
		return nil, err
	}

	ratings := make(core.Ratings, 0, len(rows))
	for i, row := range rows {
		if err := checkRowWidth(row, col, s.RatingsPath, i); err != nil {
			return nil, err
		}
		userID, err1 := strconv.ParseInt(row[col["user_id"]], 10, 64)
		itemID, err2 := strconv.ParseInt(row[col["item_id"]], 10, 64)
		score, err3 := strconv.Atoi(row[col["rating"]])
		if err1 != nil || err2 != nil || err3 != nil {
			return nil, fmt.Errorf("%s row %d: non-numeric rating triple", s.RatingsPath, i+2)
		}
		ratings = append(ratings, core.Rating{UserID: userID, ItemID: itemID, Score: score})
	}
	return ratings, nil
}

// SaveRating 追加或更新评分并重写文件。
func (s *CSVStore) SaveRating(ctx context.Context, r core.Rating) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ratings, err := s.LoadRatings(ctx)
	if err != nil {
		return err
	}

	updated := false
	for i := range ratings {
		if ratings[i].UserID == r.UserID && ratings[i].ItemID == r.ItemID {
			ratings[i].Score = r.Score
			updated = true
			break
		}
	}
	if !updated {
		ratings = append(ratings, r)
	}

	return s.writeRatings(ratings)
}

func (s *CSVStore) writeRatings(ratings core.Ratings) error {
	dir := filepath.Dir(s.RatingsPath)
	tmp, err := os.CreateTemp(dir, ".ratings-*.csv")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(ratingColumns); err != nil {
		tmp.Close()
		return err
	}
	for _, r := range ratings {
		rec := []string{
			strconv.FormatInt(r.UserID, 10),
			strconv.FormatInt(r.ItemID, 10),
			strconv.Itoa(r.Score),
		}
		if err := w.Write(rec); err != nil {
			tmp.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.RatingsPath)
}

func readCSV(path string) (rows [][]string, header []string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // 行尾可选列
	all, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, nil, nil
	}
	return all[1:], all[0], nil
}

// columnIndex 定位必需列，缺列返回 MISSING_COLUMN 领域错误。
func columnIndex(header []string, required []string, path string) (map[string]int, error) {
	col := make(map[string]int, len(required))
	for _, name := range required {
		idx, ok := findColumn(header, name)
		if !ok {
			return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeMissingColumn,
				fmt.Sprintf("%s: missing required column %q", path, name))
		}
		col[name] = idx
	}
	return col, nil
}

// checkRowWidth 校验数据行覆盖全部必需列。
// FieldsPerRecord = -1 只是为了容忍行尾可选列缺失，
// 必需列的宽度检查在这里补回来，截断行返回 INVALID_INPUT 而不是越界。
func checkRowWidth(row []string, col map[string]int, path string, rowIdx int) error {
	for name, idx := range col {
		if idx >= len(row) {
			return core.NewDomainError(core.ModuleStore, core.ErrorCodeInvalidInput,
				fmt.Sprintf("%s row %d: too few columns, missing %q", path, rowIdx+2, name))
		}
	}
	return nil
}

func findColumn(header []string, name string) (int, bool) {
	for i, h := range header {
		if h == name {
			return i, true
		}
	}
	return 0, false
}

var (
	_ core.CatalogStore = (*CSVStore)(nil)
	_ core.RatingStore  = (*CSVStore)(nil)
)
