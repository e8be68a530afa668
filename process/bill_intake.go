package main

import (
	"flag"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"billscan/models"
	"billscan/pkg/ocr"
)

// Global DB handle for helper funcs
var db *gorm.DB

var engine ocr.Engine

// global flags (parsed in main)
var (
	verbose     bool
	simulateOCR bool
)

// preload caches
type preloadState struct {
	jobsByFile map[string]*models.OCRJob // image base name -> job
	billsByNum map[string]*models.Bill   // bill number -> bill
	mu         sync.RWMutex
}

func newPreloadState() *preloadState {
	return &preloadState{
		jobsByFile: make(map[string]*models.OCRJob, 1024),
		billsByNum: make(map[string]*models.Bill, 1024),
	}
}

func (ps *preloadState) getJob(name string) (*models.OCRJob, bool) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	j, ok := ps.jobsByFile[name]
	return j, ok
}
func (ps *preloadState) putJob(name string, j *models.OCRJob) {
	ps.mu.Lock()
	ps.jobsByFile[name] = j
	ps.mu.Unlock()
}
func (ps *preloadState) getBill(num string) (*models.Bill, bool) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	b, ok := ps.billsByNum[num]
	return b, ok
}
func (ps *preloadState) putBill(b *models.Bill) {
	ps.mu.Lock()
	ps.billsByNum[b.BillNumber] = b
	ps.mu.Unlock()
}

func mustInitDBFromEnv() *gorm.DB {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatalf("DB_DSN must be set in environment to run this tool")
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	return gdb
}

// Main: scans a directory of scanned bill images, runs OCR + field
// extraction, creates draft bills with suggested fields, optional watch mode.
func main() {
	_ = godotenv.Load()
	dirFlag := flag.String("dir", "scans/inbox", "directory to scan for bill images")
	tenantCode := flag.String("tenant", "skanda", "tenant code to file bills under")
	vendorID := flag.Uint("vendor-id", 0, "Vendor ID for created bills (if omitted, matched by extracted vendor name or filed under UNVERIFIED)")
	dryRun := flag.Bool("dry-run", false, "Skip all DB writes; just list / optionally OCR (see --simulate-ocr)")
	watch := flag.Bool("watch", false, "Watch directory for new files")
	workers := flag.Int("workers", 0, "Worker pool size (default NumCPU)")
	flag.BoolVar(&verbose, "verbose", false, "Verbose per-file logging")
	flag.BoolVar(&simulateOCR, "simulate-ocr", false, "In dry-run: actually run OCR to show suggested fields")
	flag.Parse()

	if *dryRun {
		log.Printf("Dry-run: scanning %s (no DB interaction)", *dirFlag)
		files := listImageFiles(*dirFlag)
		log.Printf("Found %d candidate files", len(files))
		if simulateOCR {
			for _, f := range files {
				res, err := engine.Run(filepath.Join(*dirFlag, f), true)
				if err != nil {
					logV("OCR fail %s: %v", f, err)
					continue
				}
				s := res.Suggestions()
				logV("OCR %s number=%s date=%s total=%s net=%s vendor=%s",
					f, strVal(s.BillNumber), strVal(s.BillDate), strVal(s.Total), strVal(s.TotalNet), strVal(s.VendorName))
			}
		}
		return
	}

	db = mustInitDBFromEnv()
	tenant := resolveTenant(*tenantCode)
	ps := preloadAll(tenant)
	log.Printf("Preloaded: jobs=%d bills=%d", len(ps.jobsByFile), len(ps.billsByNum))

	files := listImageFiles(*dirFlag)
	log.Printf("Scanning %d files (workers=%d)", len(files), effectiveWorkers(*workers))
	runWorkerPool(*dirFlag, tenant, *vendorID, ps, files, effectiveWorkers(*workers))

	if *watch {
		if err := watchDirectory(*dirFlag, tenant, *vendorID, ps, effectiveWorkers(*workers)); err != nil {
			log.Fatalf("watch failed: %v", err)
		}
	}
}

func effectiveWorkers(w int) int {
	if w <= 0 {
		return runtime.NumCPU()
	}
	return w
}

func logV(format string, args ...any) {
	if verbose {
		log.Printf(format, args...)
	}
}

func strVal(p *string) string {
	if p == nil {
		return "-"
	}
	return *p
}

func resolveTenant(code string) models.Tenant {
	var t models.Tenant
	if err := db.Where("code = ? AND is_active = true", code).First(&t).Error; err != nil {
		log.Fatalf("tenant %q not found: %v", code, err)
	}
	return t
}

// preloadAll fetches existing jobs and bills to minimize per-file queries.
func preloadAll(tenant models.Tenant) *preloadState {
	ps := newPreloadState()
	var jobs []models.OCRJob
	if err := db.Where("tenant_id = ?", tenant.ID).Find(&jobs).Error; err == nil {
		for i := range jobs {
			j := jobs[i]
			ps.jobsByFile[filepath.Base(j.ImagePath)] = &j
		}
	}
	var bills []models.Bill
	if err := db.Where("tenant_id = ?", tenant.ID).Find(&bills).Error; err == nil {
		for i := range bills {
			b := bills[i]
			ps.billsByNum[b.BillNumber] = &b
		}
	}
	return ps
}

// resolveVendor picks the vendor for an intake bill: the explicit flag wins,
// then a name match against the extracted vendor line, then the catch-all
// UNVERIFIED vendor every review queue drains from.
func resolveVendor(tenant models.Tenant, vendorID uint, vendorName *string) (models.Vendor, error) {
	var v models.Vendor
	if vendorID != 0 {
		if err := db.Where("tenant_id = ?", tenant.ID).First(&v, vendorID).Error; err != nil {
			return v, err
		}
		return v, nil
	}
	if vendorName != nil {
		if err := db.Where("tenant_id = ? AND LOWER(name) = LOWER(?)", tenant.ID, *vendorName).First(&v).Error; err == nil {
			return v, nil
		}
	}
	if err := db.Where("tenant_id = ? AND name = ?", tenant.ID, "UNVERIFIED").First(&v).Error; err != nil {
		v = models.Vendor{TenantID: tenant.ID, Name: "UNVERIFIED", Type: "SUPPLIER"}
		if err := db.Create(&v).Error; err != nil {
			return v, err
		}
	}
	return v, nil
}

func listImageFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !isSupportedExt(e.Name()) {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out
}

func watchDirectory(dir string, tenant models.Tenant, vendorID uint, ps *preloadState, workers int) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return err
	}
	log.Printf("Watching %s (debounced) ...", dir)

	fileCh := make(chan string, 256)
	go func() {
		// simple debounce map of pending files
		pending := map[string]time.Time{}
		ticker := time.NewTicker(250 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					close(fileCh)
					return
				}
				if ev.Op&fsnotify.Create == fsnotify.Create {
					name := filepath.Base(ev.Name)
					if !isSupportedExt(name) {
						continue
					}
					pending[name] = time.Now()
				}
			case <-ticker.C:
				now := time.Now()
				for name, t := range pending {
					if now.Sub(t) > 300*time.Millisecond { // stable
						fileCh <- name
						delete(pending, name)
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					close(fileCh)
					return
				}
				log.Printf("watch error: %v", err)
			}
		}
	}()

	// Use worker pool for watch events too
	go runWorkerPool(dir, tenant, vendorID, ps, nil, workers, fileCh)
	// block forever (Ctrl+C to exit)
	select {}
}

func isSupportedExt(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp", ".tif", ".tiff":
		return true
	}
	return false
}

// worker pool orchestrator
func runWorkerPool(dir string, tenant models.Tenant, vendorID uint, ps *preloadState, initial []string, workers int, extraCh ...<-chan string) {
	fileCh := make(chan string, 1024)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range fileCh {
				processSingleFile(dir, name, tenant, vendorID, ps)
			}
		}()
	}
	// feed initial
	go func() {
		for _, f := range initial {
			fileCh <- f
		}
		// also relay from extra channels if provided
		for _, ch := range extraCh {
			go func(c <-chan string) {
				for n := range c {
					fileCh <- n
				}
			}(ch)
		}
		// if no extraCh (scan only) close when done
		if len(extraCh) == 0 {
			close(fileCh)
		}
	}()
	if len(extraCh) == 0 {
		wg.Wait()
	}
}

// processSingleFile OCRs one scanned bill and creates a draft bill with the
// suggested fields. Idempotent per image name and per bill number.
func processSingleFile(dir, name string, tenant models.Tenant, vendorID uint, ps *preloadState) {
	filePath := filepath.Join(dir, name)

	if _, ok := ps.getJob(name); ok { // already processed
		logV("SKIP job exists %s", name)
		return
	}

	res, err := engine.Run(filePath, true)
	if err != nil {
		logV("OCR fail %s: %v", name, err)
		return
	}
	s := res.Suggestions()

	billNumber := "SCAN/" + strings.TrimSuffix(name, filepath.Ext(name))
	if s.BillNumber != nil {
		billNumber = *s.BillNumber
	}
	if existing, ok := ps.getBill(billNumber); ok {
		logV("SKIP bill exists %s (#%d)", billNumber, existing.ID)
		return
	}

	vendor, err := resolveVendor(tenant, vendorID, s.VendorName)
	if err != nil {
		log.Printf("ERROR resolve vendor for %s: %v", name, err)
		return
	}

	billDate := time.Now()
	if s.BillDate != nil {
		if t, err := time.Parse("2006-01-02", *s.BillDate); err == nil {
			billDate = t
		}
	}
	total := amountToMinor(s.Total)
	if total == 0 {
		total = amountToMinor(s.TotalNet)
	}

	bill := models.Bill{
		TenantID: tenant.ID, VendorID: vendor.ID,
		BillNumber: billNumber, BillDate: billDate,
		BillType: models.BillTypeNormal, Status: models.BillStatusDraft,
		PaymentStatus:  models.PaymentUnpaid,
		AmountSubtotal: amountToMinor(s.Subtotal),
		AmountTax:      amountToMinor(s.Tax),
		AmountTotal:    total,
		OCRText:        res.Text, ImagePath: filePath,
		BilledToName: s.BilledToName, ShippedToName: s.ShippedToName,
		DeliveryRecipient: s.DeliveryRecipient, Post: s.Post,
	}
	if s.DeliveryDate != nil {
		if t, err := time.Parse("2006-01-02", *s.DeliveryDate); err == nil {
			bill.DeliveryDate = &t
		}
	}
	if err := db.Create(&bill).Error; err != nil {
		if isUniqueConstraintError(err) {
			logV("SKIP bill raced %s", billNumber)
			return
		}
		log.Printf("ERROR create bill %s: %v", name, err)
		return
	}
	ps.putBill(&bill)

	job := models.OCRJob{TenantID: tenant.ID, BillID: &bill.ID, ImagePath: filePath, RawText: res.Text, Detailed: res.Detailed()}
	if err := db.Create(&job).Error; err != nil {
		log.Printf("ERROR create ocr job %s: %v", name, err)
	} else {
		ps.putJob(name, &job)
	}
	log.Printf("DRAFT bill=%d number=%s vendor=%s total=%d file=%s", bill.ID, bill.BillNumber, vendor.Name, bill.AmountTotal, name)

	// Move the processed file so new images are processed only once.
	if err := moveToProcessed(filePath, name); err != nil {
		log.Printf("WARN failed to move processed file %s: %v", name, err)
	} else {
		logV("moved processed %s", name)
	}
}

// amountToMinor converts a decimal suggestion like "815.0" to smallest
// currency units. Nil or unparseable comes back 0.
func amountToMinor(s *string) int64 {
	if s == nil {
		return 0
	}
	v, err := strconv.ParseFloat(*s, 64)
	if err != nil || v <= 0 {
		return 0
	}
	return int64(math.Round(v * 100))
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint") || strings.Contains(s, "already exists")
}

// moveToProcessed moves a handled scan into the processed directory next to
// the inbox. Oversized scans are downscaled on the way out so the archive
// stays small; an atomic rename is tried first, then copy+remove.
func moveToProcessed(srcFullPath, name string) error {
	const maxBytes = 1_000_000 // 1 MB budget
	processedDir := filepath.Join(filepath.Dir(filepath.Dir(srcFullPath)), "processed")
	if err := os.MkdirAll(processedDir, 0o755); err != nil {
		return err
	}
	dst := filepath.Join(processedDir, name)

	fi, err := os.Stat(srcFullPath)
	if err != nil {
		return err
	}
	// Fast path: already small enough -> attempt rename/copy
	if fi.Size() <= maxBytes {
		if err := os.Rename(srcFullPath, dst); err == nil {
			return nil
		}
		return copyRemove(srcFullPath, dst)
	}
	img, err := imaging.Open(srcFullPath)
	if err != nil { // fallback to raw move if cannot decode
		if err := os.Rename(srcFullPath, dst); err == nil {
			return nil
		}
		return copyRemove(srcFullPath, dst)
	}
	// Estimate scale factor based on sqrt(max/current) (size roughly scales with area)
	scale := math.Sqrt(float64(maxBytes) / float64(fi.Size()))
	if scale > 0.95 {
		scale = 0.95
	}
	if scale < 0.1 { // avoid absurd downscale
		scale = 0.1
	}
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	newW := int(math.Max(1, math.Round(float64(w)*scale)))
	newH := int(math.Max(1, math.Round(float64(h)*scale)))
	img = imaging.Resize(img, newW, newH, imaging.Lanczos)
	if err := imaging.Save(img, dst); err != nil {
		if err := os.Rename(srcFullPath, dst); err == nil {
			return nil
		}
		return copyRemove(srcFullPath, dst)
	}
	_ = os.Remove(srcFullPath)
	return nil
}

func copyRemove(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return err
	}
	_ = out.Close()
	if err := os.Remove(src); err != nil {
		return err
	}
	return nil
}
