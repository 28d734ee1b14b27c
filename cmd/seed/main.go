package main

import (
	"context"
	"flag"
	"log"
	"os"

	"course-qa-be/internal/config"
	"course-qa-be/internal/entity"
	"course-qa-be/internal/pkg/logger"
	"course-qa-be/internal/repository/unitofwork"
	"course-qa-be/internal/service"
	"course-qa-be/pkg/database"
)

const demoGuide = `Week 1: Introduction to data structures, arrays and linked lists
Week 2: Stacks, queues and their applications
Week 3: Recursion and divide and conquer
Week 4: Sorting algorithms: merge sort, quick sort, heap sort
Week 5: Binary search trees and tree traversal
Week 6: Balanced trees: AVL and red-black trees
Week 7: Hash tables and collision resolution
Week 8: Midterm review
Week 9: Graph representation, breadth first search
Week 10: Depth first search and topological sort
Week 11: Shortest paths: Dijkstra and Bellman-Ford
Week 12: Minimum spanning trees: Prim and Kruskal
Week 13: Dynamic programming fundamentals
Week 14: Greedy algorithms
Week 15: String matching algorithms
Week 16: Final review`

func main() {
	code := flag.String("code", "CS201", "course code")
	title := flag.String("title", "Data Structures and Algorithms", "course title")
	guidePath := flag.String("guide", "", "path to a course guide text file (defaults to a built-in demo guide)")
	weeks := flag.Int("weeks", 16, "number of weekly plans to generate from the guide")
	flag.Parse()

	cfg := config.Load()
	db, err := database.NewGormDB(cfg.Database.Driver, cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	guide := demoGuide
	if *guidePath != "" {
		raw, err := os.ReadFile(*guidePath)
		if err != nil {
			log.Fatalf("Error: Failed to read guide %s: %v", *guidePath, err)
		}
		guide = string(raw)
	}

	ctx := context.Background()
	uowFactory := unitofwork.NewRepositoryFactory(db)
	uow := uowFactory.NewUnitOfWork(ctx)

	log.Printf("Seeding course %s...", *code)
	course, err := uow.CourseRepository().FindByIdOrCode(ctx, *code)
	if err != nil {
		log.Fatalf("Error: Failed to look up course: %v", err)
	}
	if course == nil {
		course = &entity.Course{CourseCode: *code, Title: *title}
		if err := uow.CourseRepository().Create(ctx, course); err != nil {
			log.Fatalf("Error creating course '%s': %v", *code, err)
		}
		log.Printf("Created course: %s (%s)", course.Title, course.CourseCode)
	} else {
		log.Printf("Course '%s' already exists, refreshing guide and plans...", *code)
	}

	plans := service.NewWeeklyPlanService(uowFactory, logger.NewNopLogger())
	if _, err := plans.SetCourseGuide(ctx, course.CourseCode, guide); err != nil {
		log.Fatalf("Error setting guide: %v", err)
	}
	res, err := plans.GenerateFromGuide(ctx, course.CourseCode, *weeks)
	if err != nil {
		log.Fatalf("Error generating weekly plans: %v", err)
	}

	log.Printf("Seeding completed! %d weekly plans for %s (id %s)", res.Created, course.CourseCode, course.Id)
}
