/**
 * Copyright (c) 2019, The Artemis Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package concurrent

import (
	"sync"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("readyQueue", func() {
	It("is empty until something is pushed", func() {
		var q readyQueue
		Expect(q.empty()).Should(BeTrue())
		Expect(q.pop()).Should(BeNil())
	})

	It("pops in FIFO order", func() {
		var q readyQueue
		a, b, c := &Task{Name: "a"}, &Task{Name: "b"}, &Task{Name: "c"}

		q.push(a)
		q.push(b)
		q.push(c)

		Expect(q.pop()).Should(BeIdenticalTo(a))
		Expect(q.pop()).Should(BeIdenticalTo(b))
		Expect(q.pop()).Should(BeIdenticalTo(c))
		Expect(q.pop()).Should(BeNil())
		Expect(q.empty()).Should(BeTrue())
	})

	It("tolerates a task being pushed twice without corrupting the list", func() {
		var q readyQueue
		a, b := &Task{Name: "a"}, &Task{Name: "b"}

		q.push(a)
		q.push(a)
		q.push(b)

		first := q.pop()
		Expect(first).Should(BeIdenticalTo(a))

		second := q.pop()
		Expect(second).Should(BeIdenticalTo(a))

		Expect(q.pop()).Should(BeIdenticalTo(b))
		Expect(q.pop()).Should(BeNil())
	})

	It("survives concurrent pushers without losing or duplicating entries", func() {
		var q readyQueue
		const n = 200

		tasks := make([]*Task, n)
		for i := range tasks {
			tasks[i] = &Task{}
		}

		var wg sync.WaitGroup
		for _, t := range tasks {
			wg.Add(1)
			go func(t *Task) {
				defer wg.Done()
				q.push(t)
			}(t)
		}
		wg.Wait()

		seen := 0
		for q.pop() != nil {
			seen++
		}
		Expect(seen).Should(Equal(n))
	})
})
